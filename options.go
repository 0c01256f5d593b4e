package backdrop

import (
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/gogpu/backdrop/activation"
	"github.com/gogpu/backdrop/effect"
	"github.com/gogpu/backdrop/visibility"
)

// Option configures a Controller during creation.
//
// Example:
//
//	// Defaults: embedded shaders, real clock, every mount treated as visible
//	c := backdrop.New(probe.Native{})
//
//	// Page with a viewport and a shorter load delay
//	c := backdrop.New(platform,
//	    backdrop.WithObserver(viewport),
//	    backdrop.WithLoadDelay(50*time.Millisecond))
type Option func(*options)

// TransitionHook observes every state change of every mount of a Controller.
type TransitionHook func(mountID string, t activation.Transition)

// options holds optional configuration for Controller creation.
type options struct {
	clock      clock.Clock
	registry   *effect.Registry
	loader     activation.Loader
	observer   visibility.Observer
	visibility visibility.Options
	loadDelay  time.Duration
	logger     *slog.Logger
	hook       TransitionHook
}

// defaultOptions returns the default controller options.
func defaultOptions() options {
	return options{
		clock:      clock.New(),
		registry:   effect.Default(),
		observer:   visibility.Always{},
		visibility: visibility.DefaultOptions(),
		loadDelay:  activation.DefaultLoadDelay,
	}
}

// WithClock sets the clock behind every timer. Tests pass a *clock.Mock.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithRegistry resolves effect types against r instead of effect.Default().
func WithRegistry(r *effect.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithLoader replaces the shader loader used for the heavy renderer.
func WithLoader(l activation.Loader) Option {
	return func(o *options) {
		o.loader = l
	}
}

// WithObserver sets the intersection primitive mounts are observed with.
// Without it every mount counts as visible once the device is eligible.
func WithObserver(obs visibility.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithVisibility sets the threshold and root margin for every mount.
func WithVisibility(v visibility.Options) Option {
	return func(o *options) {
		o.visibility = v
	}
}

// WithLoadDelay sets the pause between a mount becoming visible and the
// renderer load.
func WithLoadDelay(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.loadDelay = d
		}
	}
}

// WithLogger sets the controller's logger. The package logger is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTransitionHook registers h for every mount transition.
func WithTransitionHook(h TransitionHook) Option {
	return func(o *options) {
		o.hook = h
	}
}

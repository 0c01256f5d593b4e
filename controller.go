package backdrop

import (
	"log/slog"
	"sync"

	"github.com/gogpu/backdrop/activation"
	"github.com/gogpu/backdrop/effect"
	"github.com/gogpu/backdrop/fallback"
	"github.com/gogpu/backdrop/internal/logging"
	"github.com/gogpu/backdrop/probe"
	"github.com/gogpu/backdrop/quality"
	"github.com/gogpu/backdrop/shader"
	"github.com/gogpu/backdrop/visibility"
)

// Controller is the per-page context for backdrop mounts. It probes the
// device at most once, shares the score and memoized settings between its
// mounts, and owns their lifecycle. Create one per page session; nothing is
// shared between Controllers.
type Controller struct {
	platform probe.Platform
	opts     options
	log      *slog.Logger
	deriver  *quality.Deriver
	fallback *fallback.Renderer
	loader   activation.Loader

	probeOnce sync.Once
	caps      probe.Capabilities
	score     quality.Score

	mu     sync.Mutex
	mounts map[*Mount]struct{}
	closed bool
}

// New creates a Controller for platform p. A nil platform is headless.
func New(p probe.Platform, opts ...Option) *Controller {
	if p == nil {
		p = probe.Headless{}
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Controller{
		platform: p,
		opts:     o,
		log:      o.logger,
		deriver:  quality.NewDeriver(o.registry),
		fallback: fallback.New(o.registry),
		loader:   o.loader,
		mounts:   make(map[*Mount]struct{}),
	}
	if c.loader == nil {
		c.loader = shader.NewLoader(
			shader.WithRegistry(o.registry),
			shader.WithClock(o.clock),
			shader.WithLogger(o.logger),
		)
	}
	return c
}

func (c *Controller) logger() *slog.Logger { return logging.Or(c.log) }

func (c *Controller) probe() {
	c.probeOnce.Do(func() {
		c.caps = probe.Probe(c.platform)
		c.score = quality.ScoreCapabilities(c.caps)
		c.logger().Debug("backdrop: device scored",
			"score", c.score.Value, "tier", c.score.Tier.String(), "caps", c.caps.String())
	})
}

// Capabilities returns the device capabilities, probing on first call.
func (c *Controller) Capabilities() probe.Capabilities {
	c.probe()
	return c.caps
}

// Score returns the device score, probing on first call.
func (c *Controller) Score() quality.Score {
	c.probe()
	return c.score
}

// Eligible reports whether the device may run the heavy effect at all.
func (c *Controller) Eligible() bool {
	c.probe()
	return quality.Eligible(c.caps, c.score)
}

// Settings returns the render settings for et at the device's tier.
// Unknown effect types return an error wrapping quality.ErrUnknownEffect.
func (c *Controller) Settings(et effect.Type) (quality.Settings, error) {
	return c.deriver.Derive(et, c.Score().Tier)
}

// Registry returns the effect registry the controller resolves against.
func (c *Controller) Registry() *effect.Registry { return c.opts.registry }

// Fallback returns the controller's fallback renderer.
func (c *Controller) Fallback() *fallback.Renderer { return c.fallback }

// Mount creates a mount point for props at el and schedules its activation.
// el may be nil when the host has no layout information. The returned
// mount's markup is the pre-render markup until the deferred client
// confirmation fires.
func (c *Controller) Mount(props Props, el visibility.Element) *Mount {
	if el == nil {
		el = visibility.NewBox(visibility.Rect{})
	}
	m := newMount(c, props)
	cfg := activation.Config{
		Effect:           props.Effect,
		DisableAnimation: props.DisableAnimation,
		MouseInteraction: props.EnableMouseInteraction,
		Interactive:      func() bool { return probe.Interactive(c.platform) },
		Assess:           c.assess(props.Effect),
		Gate:             visibility.NewGate(c.opts.observer, c.opts.visibility),
		Element:          el,
		Loader:           c.loader,
		Clock:            c.opts.clock,
		LoadDelay:        c.opts.loadDelay,
		Logger:           c.logger().With("mount", m.id.String()),
		OnTransition:     m.onTransition,
	}
	m.machine = activation.New(cfg)

	c.mu.Lock()
	closed := c.closed
	if !closed {
		c.mounts[m] = struct{}{}
	}
	c.mu.Unlock()
	if closed {
		m.machine.Dispose()
		return m
	}

	m.machine.Start()
	return m
}

func (c *Controller) assess(et effect.Type) func() activation.Assessment {
	return func() activation.Assessment {
		caps, score := c.Capabilities(), c.Score()
		s, err := c.Settings(et)
		return activation.Assessment{Caps: caps, Score: score, Settings: s, Err: err}
	}
}

func (c *Controller) forget(m *Mount) {
	c.mu.Lock()
	delete(c.mounts, m)
	c.mu.Unlock()
}

// Mounts returns the number of live mounts.
func (c *Controller) Mounts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.mounts)
}

// Close disposes every mount. Mounts created afterwards are disposed at once.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	mounts := make([]*Mount, 0, len(c.mounts))
	for m := range c.mounts {
		mounts = append(mounts, m)
	}
	c.mu.Unlock()

	for _, m := range mounts {
		m.Dispose()
	}
}

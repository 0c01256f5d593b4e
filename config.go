package backdrop

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/backdrop/visibility"
)

// ErrInvalidConfig is returned for malformed BACKDROP_* settings.
var ErrInvalidConfig = errors.New("backdrop: invalid config")

// Environment variables read by ConfigFromEnv.
const (
	EnvLoadDelay           = "BACKDROP_LOAD_DELAY"
	EnvVisibilityThreshold = "BACKDROP_VISIBILITY_THRESHOLD"
	EnvRootMargin          = "BACKDROP_ROOT_MARGIN"
	EnvLogLevel            = "BACKDROP_LOG_LEVEL"
	EnvDisableGPU          = "BACKDROP_DISABLE_GPU"
)

// Config is the environment-driven part of a Controller's configuration.
// BACKDROP_REDUCED_MOTION is read by probe.Native directly.
type Config struct {
	LoadDelay  time.Duration
	Visibility visibility.Options
	LogLevel   slog.Level
	DisableGPU bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		LoadDelay:  defaultOptions().loadDelay,
		Visibility: visibility.DefaultOptions(),
		LogLevel:   slog.LevelWarn,
	}
}

// ConfigFromEnv overlays BACKDROP_* environment variables on DefaultConfig.
// Unset or empty variables keep their defaults.
//
// BACKDROP_LOAD_DELAY accepts a Go duration ("150ms") or whole milliseconds.
func ConfigFromEnv() (Config, error) {
	return configFrom(os.LookupEnv)
}

func configFrom(lookup func(string) (string, bool)) (Config, error) {
	c := DefaultConfig()
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvLoadDelay); ok {
		d, err := parseDelay(v)
		if err != nil {
			return c, fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvLoadDelay, v, err)
		}
		c.LoadDelay = d
	}
	if v, ok := get(EnvVisibilityThreshold); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvVisibilityThreshold, v, err)
		}
		c.Visibility.Threshold = f
	}
	if v, ok := get(EnvRootMargin); ok {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
		if err != nil {
			return c, fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvRootMargin, v, err)
		}
		c.Visibility.RootMargin = f
	}
	if v, ok := get(EnvLogLevel); ok {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return c, fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvLogLevel, v, err)
		}
	}
	if v, ok := get(EnvDisableGPU); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvDisableGPU, v, err)
		}
		c.DisableGPU = b
	}
	return c, c.Validate()
}

func parseDelay(v string) (time.Duration, error) {
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(v)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.LoadDelay < 0:
		return fmt.Errorf("%w: negative load delay %v", ErrInvalidConfig, c.LoadDelay)
	case c.Visibility.Threshold < 0 || c.Visibility.Threshold > 1:
		return fmt.Errorf("%w: visibility threshold %g outside [0, 1]", ErrInvalidConfig, c.Visibility.Threshold)
	case c.Visibility.RootMargin < 0:
		return fmt.Errorf("%w: negative root margin %g", ErrInvalidConfig, c.Visibility.RootMargin)
	}
	return nil
}

// Options converts c to Controller options.
func (c Config) Options() []Option {
	return []Option{
		WithLoadDelay(c.LoadDelay),
		WithVisibility(c.Visibility),
	}
}

// NewLogger returns a text logger writing to w at c.LogLevel.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

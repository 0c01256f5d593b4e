// Package probe reads the hardware and browser signals that decide how much
// visual work a device can afford.
//
// Probing is synchronous and side-effect free beyond the reads. Every signal
// has a documented default; a platform that errors or panics while reporting
// a signal yields that default instead, so Probe never fails.
//
//	caps := probe.Probe(probe.Native{})
//	fmt.Println(caps)
package probe

import (
	"errors"
	"log/slog"

	"github.com/gogpu/backdrop/internal/logging"
)

// ErrUnknown is returned by a Platform for a signal it cannot report.
var ErrUnknown = errors.New("probe: signal not reported")

// Platform is the host boundary that reports device signals.
//
// Interactive reports whether a live browser-like context exists. When it
// returns false no other method is called and Probe returns Neutral.
type Platform interface {
	Interactive() bool
	LogicalCores() (int, error)
	DeviceMemoryGiB() (float64, error)
	UserAgent() (string, error)
	PrefersReducedMotion() (bool, error)
	GPUContext() (bool, error)
}

// Probe reads every signal from p exactly once.
func Probe(p Platform) Capabilities {
	if p == nil {
		return Neutral()
	}
	log := logging.Logger()
	if !Interactive(p) {
		return Neutral()
	}

	caps := Capabilities{
		LogicalCores:    read(log, "logical_cores", DefaultLogicalCores, p.LogicalCores),
		DeviceMemoryGiB: read(log, "device_memory", 0, p.DeviceMemoryGiB),
		Mobile:          IsMobileUserAgent(read(log, "user_agent", "", p.UserAgent)),
		GPUContext:      read(log, "gpu_context", false, p.GPUContext),
		ReducedMotion:   read(log, "reduced_motion", false, p.PrefersReducedMotion),
	}
	if caps.LogicalCores < 1 {
		caps.LogicalCores = DefaultLogicalCores
	}
	if caps.DeviceMemoryGiB < 0 {
		caps.DeviceMemoryGiB = 0
	}

	log.Debug("probe: capabilities read", "caps", caps.String())
	return caps
}

// Interactive reports whether p has a live client context. A nil platform
// or a panicking check counts as non-interactive.
func Interactive(p Platform) bool {
	if p == nil {
		return false
	}
	return read(logging.Logger(), "interactive", false, func() (bool, error) { return p.Interactive(), nil })
}

// read calls fn and converts an error or a panic into def.
func read[T any](log *slog.Logger, signal string, def T, fn func() (T, error)) (v T) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug("probe: signal panicked, using default", "signal", signal, "panic", r)
			v = def
		}
	}()
	got, err := fn()
	if err != nil {
		log.Debug("probe: signal unavailable, using default", "signal", signal, "err", err)
		return def
	}
	return got
}

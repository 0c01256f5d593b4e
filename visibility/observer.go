// Package visibility reports when a mount point enters the viewport.
//
// Observer is the platform's intersection primitive; Viewport is a geometric
// implementation that hosts drive with scroll and resize updates. Gate wraps
// an Observer into the one-shot "entered" signal the activation state
// machine waits for.
package visibility

import (
	"sync"
)

// Default observation parameters.
const (
	DefaultThreshold  = 0.1
	DefaultRootMargin = 50
)

// Options configure an observation.
type Options struct {
	// Threshold is the fraction of the element's area that must be inside
	// the root for the element to count as visible.
	Threshold float64

	// RootMargin grows the viewport on every side, in CSS pixels, so that
	// observation fires slightly before the element is on screen.
	RootMargin float64
}

// DefaultOptions returns a 10% threshold with a 50px margin.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, RootMargin: DefaultRootMargin}
}

// Entry is one intersection report.
type Entry struct {
	Ratio        float64
	Intersecting bool
}

// Element is a region whose document-space bounds can be read.
type Element interface {
	Bounds() Rect
}

// Observer is the platform's intersection-observation primitive.
//
// Observe must deliver an initial Entry for the element's current position
// and further entries whenever the element crosses the threshold. The
// returned stop function ends the observation and may be called more than
// once. Callbacks may run on any goroutine, including the caller's.
type Observer interface {
	Observe(el Element, opts Options, cb func(Entry)) (stop func())
}

// Box is an Element with settable bounds.
type Box struct {
	mu sync.RWMutex
	r  Rect
}

// NewBox returns a Box at r.
func NewBox(r Rect) *Box { return &Box{r: r} }

// Bounds returns the current bounds.
func (b *Box) Bounds() Rect {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.r
}

// Set moves the box. Viewports re-evaluate on their next update or Refresh.
func (b *Box) Set(r Rect) {
	b.mu.Lock()
	b.r = r
	b.mu.Unlock()
}

// Always is an Observer for hosts without viewport information. Every
// element is reported fully visible as soon as it is observed.
type Always struct{}

// Observe delivers a single intersecting entry before returning.
func (Always) Observe(_ Element, _ Options, cb func(Entry)) func() {
	cb(Entry{Ratio: 1, Intersecting: true})
	return func() {}
}

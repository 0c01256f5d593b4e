package visibility

import (
	"errors"
	"sync"
)

// Gate errors.
var (
	ErrGateDisposed = errors.New("visibility: gate disposed")
	ErrGateInUse    = errors.New("visibility: gate already observing")
)

// Gate turns an Observer into a one-shot "element entered the viewport"
// signal. A Gate observes at most one element and fires at most once.
type Gate struct {
	observer Observer
	opts     Options

	mu        sync.Mutex
	stop      func()
	observing bool
	fired     bool
	disposed  bool
}

// NewGate creates a Gate over o with the given options.
func NewGate(o Observer, opts Options) *Gate {
	return &Gate{observer: o, opts: opts}
}

// Observe registers onEnter to run the first time el is visible under the
// gate's threshold and margin. An element that is already visible fires
// before Observe returns. onEnter never runs after Dispose has returned.
func (g *Gate) Observe(el Element, onEnter func()) error {
	g.mu.Lock()
	switch {
	case g.disposed:
		g.mu.Unlock()
		return ErrGateDisposed
	case g.observing:
		g.mu.Unlock()
		return ErrGateInUse
	}
	g.observing = true
	g.mu.Unlock()

	stop := g.observer.Observe(el, g.opts, func(e Entry) {
		if !e.Intersecting {
			return
		}
		g.mu.Lock()
		if g.fired || g.disposed {
			g.mu.Unlock()
			return
		}
		g.fired = true
		stop := g.stop
		g.stop = nil
		g.mu.Unlock()

		if stop != nil {
			stop()
		}
		onEnter()
	})

	g.mu.Lock()
	done := g.fired || g.disposed
	if !done {
		g.stop = stop
	}
	g.mu.Unlock()

	// Fired or disposed while the observer was still registering.
	if done && stop != nil {
		stop()
	}
	return nil
}

// Fired reports whether the gate has fired.
func (g *Gate) Fired() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.fired
}

// Dispose releases the observation. It is safe to call more than once.
func (g *Gate) Dispose() {
	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		return
	}
	g.disposed = true
	stop := g.stop
	g.stop = nil
	g.mu.Unlock()

	if stop != nil {
		stop()
	}
}

package visibility

import "sync"

// Viewport is an Observer over a scrollable rectangular view.
type Viewport struct {
	mu     sync.Mutex
	view   Rect
	obs    map[uint64]*observation
	nextID uint64
}

type observation struct {
	el     Element
	opts   Options
	cb     func(Entry)
	inside bool
}

// NewViewport creates a viewport showing view.
func NewViewport(view Rect) *Viewport {
	return &Viewport{view: view, obs: make(map[uint64]*observation)}
}

// View returns the current view rectangle.
func (v *Viewport) View() Rect {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.view
}

// Len returns the number of live observations.
func (v *Viewport) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.obs)
}

// Observe implements Observer. The initial entry is delivered before
// Observe returns.
func (v *Viewport) Observe(el Element, opts Options, cb func(Entry)) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	o := &observation{el: el, opts: opts, cb: cb}
	e := o.entry(v.view)
	o.inside = e.Intersecting
	v.obs[id] = o
	v.mu.Unlock()

	cb(e)

	return func() {
		v.mu.Lock()
		delete(v.obs, id)
		v.mu.Unlock()
	}
}

// ScrollTo moves the view origin and notifies observations that crossed
// their threshold.
func (v *Viewport) ScrollTo(x, y float64) {
	v.mu.Lock()
	v.view.X, v.view.Y = x, y
	v.mu.Unlock()
	v.Refresh()
}

// ScrollBy moves the view by (dx, dy).
func (v *Viewport) ScrollBy(dx, dy float64) {
	v.mu.Lock()
	v.view.X += dx
	v.view.Y += dy
	v.mu.Unlock()
	v.Refresh()
}

// Resize changes the view size.
func (v *Viewport) Resize(w, h float64) {
	v.mu.Lock()
	v.view.W, v.view.H = w, h
	v.mu.Unlock()
	v.Refresh()
}

// Refresh re-evaluates every observation, e.g. after elements moved.
// Callbacks run on the caller's goroutine after the viewport lock is released.
func (v *Viewport) Refresh() {
	type delivery struct {
		cb func(Entry)
		e  Entry
	}
	var pending []delivery

	v.mu.Lock()
	for _, o := range v.obs {
		e := o.entry(v.view)
		if e.Intersecting != o.inside {
			o.inside = e.Intersecting
			pending = append(pending, delivery{o.cb, e})
		}
	}
	v.mu.Unlock()

	for _, d := range pending {
		d.cb(d.e)
	}
}

func (o *observation) entry(view Rect) Entry {
	root := view.Inset(o.opts.RootMargin)
	ratio := Ratio(o.el.Bounds(), root)
	return Entry{
		Ratio:        ratio,
		Intersecting: ratio > 0 && ratio >= o.opts.Threshold,
	}
}

var (
	_ Observer = (*Viewport)(nil)
	_ Observer = Always{}
)

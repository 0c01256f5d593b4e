package visibility

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func TestRatio(t *testing.T) {
	view := Rect{X: 0, Y: 0, W: 100, H: 100}
	tests := []struct {
		name string
		el   Rect
		want float64
	}{
		{"inside", Rect{10, 10, 20, 20}, 1},
		{"outside", Rect{200, 200, 10, 10}, 0},
		{"half", Rect{50, 0, 100, 100}, 0.5},
		{"zero area inside", Rect{10, 10, 0, 0}, 1},
		{"zero area outside", Rect{-10, -10, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ratio(tt.el, view); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Ratio() = %g, want %g", got, tt.want)
			}
		})
	}
}

func TestRectInset(t *testing.T) {
	got := Rect{0, 0, 100, 100}.Inset(50)
	want := Rect{-50, -50, 200, 200}
	if got != want {
		t.Errorf("Inset(50) = %+v, want %+v", got, want)
	}
}

func TestViewportInitialEntry(t *testing.T) {
	vp := NewViewport(Rect{0, 0, 800, 600})
	var got []Entry
	stop := vp.Observe(NewBox(Rect{0, 100, 800, 300}), DefaultOptions(), func(e Entry) {
		got = append(got, e)
	})
	defer stop()

	if len(got) != 1 || !got[0].Intersecting {
		t.Fatalf("initial entries = %+v, want one intersecting entry", got)
	}
}

func TestViewportRootMarginPrefetch(t *testing.T) {
	vp := NewViewport(Rect{0, 0, 800, 600})
	// Starts 45px below the fold: outside the view, inside the 50px margin.
	el := NewBox(Rect{0, 645, 800, 100})

	var got Entry
	stop := vp.Observe(el, Options{Threshold: 0.1, RootMargin: 50}, func(e Entry) { got = e })
	defer stop()
	if got.Intersecting {
		t.Errorf("5px of 100px inside margin = ratio %g, should not pass 10%% threshold", got.Ratio)
	}

	vp.ScrollTo(0, 10)
	if !got.Intersecting {
		t.Errorf("after scroll ratio = %g, want intersecting", got.Ratio)
	}
}

func TestViewportNotifiesOnlyOnCrossing(t *testing.T) {
	vp := NewViewport(Rect{0, 0, 100, 100})
	calls := 0
	stop := vp.Observe(NewBox(Rect{0, 500, 100, 100}), DefaultOptions(), func(Entry) { calls++ })
	defer stop()

	vp.ScrollBy(0, 10)
	vp.ScrollBy(0, 10)
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (initial only)", calls)
	}
	vp.ScrollTo(0, 450)
	if calls != 2 {
		t.Errorf("calls = %d, want 2 after crossing", calls)
	}
}

func TestViewportStop(t *testing.T) {
	vp := NewViewport(Rect{0, 0, 100, 100})
	stop := vp.Observe(NewBox(Rect{0, 500, 100, 100}), DefaultOptions(), func(Entry) {})
	if vp.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", vp.Len())
	}
	stop()
	stop()
	if vp.Len() != 0 {
		t.Errorf("Len() = %d after stop, want 0", vp.Len())
	}
}

func TestViewportRefreshAfterMove(t *testing.T) {
	vp := NewViewport(Rect{0, 0, 100, 100})
	box := NewBox(Rect{0, 500, 100, 100})
	var got Entry
	stop := vp.Observe(box, DefaultOptions(), func(e Entry) { got = e })
	defer stop()

	box.Set(Rect{0, 0, 100, 100})
	vp.Refresh()
	if !got.Intersecting {
		t.Error("moved box should intersect after Refresh")
	}
}

func TestGateFiresOnce(t *testing.T) {
	vp := NewViewport(Rect{0, 0, 100, 100})
	g := NewGate(vp, DefaultOptions())
	fired := 0
	if err := g.Observe(NewBox(Rect{0, 500, 100, 100}), func() { fired++ }); err != nil {
		t.Fatal(err)
	}
	if fired != 0 {
		t.Fatalf("fired = %d before scroll", fired)
	}

	vp.ScrollTo(0, 500)
	vp.ScrollTo(0, 0)
	vp.ScrollTo(0, 500)
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
	if vp.Len() != 0 {
		t.Errorf("observation not released after firing, Len() = %d", vp.Len())
	}
	if !g.Fired() {
		t.Error("Fired() = false")
	}
}

func TestGateAlreadyVisibleFiresImmediately(t *testing.T) {
	vp := NewViewport(Rect{0, 0, 100, 100})
	g := NewGate(vp, DefaultOptions())
	fired := false
	if err := g.Observe(NewBox(Rect{0, 0, 100, 100}), func() { fired = true }); err != nil {
		t.Fatal(err)
	}
	if !fired {
		t.Error("already-visible element did not fire")
	}
	if vp.Len() != 0 {
		t.Errorf("observation leaked, Len() = %d", vp.Len())
	}
}

func TestGateDisposeReleasesObservation(t *testing.T) {
	vp := NewViewport(Rect{0, 0, 100, 100})
	g := NewGate(vp, DefaultOptions())
	fired := false
	_ = g.Observe(NewBox(Rect{0, 500, 100, 100}), func() { fired = true })

	g.Dispose()
	g.Dispose()
	if vp.Len() != 0 {
		t.Errorf("Len() = %d after Dispose, want 0", vp.Len())
	}
	vp.ScrollTo(0, 500)
	if fired {
		t.Error("gate fired after Dispose")
	}
	if err := g.Observe(NewBox(Rect{}), func() {}); !errors.Is(err, ErrGateDisposed) {
		t.Errorf("Observe after Dispose = %v, want ErrGateDisposed", err)
	}
}

func TestGateRejectsSecondObserve(t *testing.T) {
	vp := NewViewport(Rect{0, 0, 100, 100})
	g := NewGate(vp, DefaultOptions())
	defer g.Dispose()
	_ = g.Observe(NewBox(Rect{0, 500, 100, 100}), func() {})
	if err := g.Observe(NewBox(Rect{0, 500, 100, 100}), func() {}); !errors.Is(err, ErrGateInUse) {
		t.Errorf("second Observe = %v, want ErrGateInUse", err)
	}
}

// chattyObserver delivers the same intersecting entry repeatedly, like a
// platform observer firing twice for one scroll.
type chattyObserver struct {
	mu      sync.Mutex
	cb      func(Entry)
	stopped int
}

func (c *chattyObserver) Observe(_ Element, _ Options, cb func(Entry)) func() {
	c.mu.Lock()
	c.cb = cb
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		c.stopped++
		c.mu.Unlock()
	}
}

func (c *chattyObserver) fire(e Entry) {
	c.mu.Lock()
	cb := c.cb
	c.mu.Unlock()
	cb(e)
}

func TestGateIgnoresDuplicateEntries(t *testing.T) {
	obs := &chattyObserver{}
	g := NewGate(obs, DefaultOptions())
	fired := 0
	_ = g.Observe(NewBox(Rect{}), func() { fired++ })

	obs.fire(Entry{Ratio: 0.05, Intersecting: false})
	obs.fire(Entry{Ratio: 0.5, Intersecting: true})
	obs.fire(Entry{Ratio: 0.5, Intersecting: true})
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
	if obs.stopped != 1 {
		t.Errorf("stopped = %d, want 1", obs.stopped)
	}
}

func TestGateCallbackAfterDisposeIsNoop(t *testing.T) {
	obs := &chattyObserver{}
	g := NewGate(obs, DefaultOptions())
	fired := false
	_ = g.Observe(NewBox(Rect{}), func() { fired = true })
	g.Dispose()

	obs.fire(Entry{Ratio: 1, Intersecting: true})
	if fired {
		t.Error("callback after Dispose fired onEnter")
	}
}

func TestAlwaysFiresGate(t *testing.T) {
	g := NewGate(Always{}, DefaultOptions())
	fired := 0
	if err := g.Observe(NewBox(Rect{0, 5000, 10, 10}), func() { fired++ }); err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if fired != 1 || !g.Fired() {
		t.Errorf("fired = %d, Fired() = %v, want 1, true", fired, g.Fired())
	}
}

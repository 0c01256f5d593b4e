package visibility

// Rect is an axis-aligned rectangle in CSS pixels, document space.
type Rect struct {
	X, Y, W, H float64
}

// Area returns the rectangle area; empty rectangles have zero area.
func (r Rect) Area() float64 {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Inset grows r by m on every side (shrinks for negative m).
func (r Rect) Inset(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// Intersect returns the overlap of r and o.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.X+r.W, o.X+o.W)
	y1 := min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains reports whether the point (x, y) lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Ratio returns the fraction of el's area inside root, in [0, 1].
// A zero-area element counts as fully visible when its origin is inside root.
func Ratio(el, root Rect) float64 {
	if el.Empty() {
		if root.Contains(el.X, el.Y) {
			return 1
		}
		return 0
	}
	return el.Intersect(root).Area() / el.Area()
}

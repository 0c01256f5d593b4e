package fallback

import (
	"fmt"
	"image"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/backdrop/effect"
)

// previewTile bounds the side of the tile a preview is evaluated on before
// it is scaled to the requested size.
const previewTile = 64

// ColorStop is a parsed palette stop.
type ColorStop struct {
	Offset float64
	Color  RGBA
}

// Gradient is a static linear gradient following CSS angle conventions:
// 0deg points up, 90deg points right.
type Gradient struct {
	Angle float64
	Stops []ColorStop // sorted by offset
}

// NewGradient parses a palette.
func NewGradient(p effect.Palette) (*Gradient, error) {
	if len(p.Stops) == 0 {
		return nil, fmt.Errorf("fallback: palette has no stops")
	}
	stops := make([]ColorStop, 0, len(p.Stops))
	for _, s := range p.Stops {
		c, err := ParseHex(s.Color)
		if err != nil {
			return nil, err
		}
		stops = append(stops, ColorStop{Offset: clamp01(s.Offset), Color: c})
	}
	slices.SortStableFunc(stops, func(a, b ColorStop) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		}
		return 0
	})
	return &Gradient{Angle: p.Angle, Stops: stops}, nil
}

// ColorAt returns the color at position t along the gradient line.
// Positions outside [0, 1] extend the edge colors.
func (g *Gradient) ColorAt(t float64) RGBA {
	stops := g.Stops
	if len(stops) == 1 {
		return stops[0].Color
	}
	t = clamp01(t)

	idx := sort.Search(len(stops), func(i int) bool {
		return stops[i].Offset >= t
	})
	if idx == 0 {
		return stops[0].Color
	}
	if idx >= len(stops) {
		return stops[len(stops)-1].Color
	}

	s1, s2 := stops[idx-1], stops[idx]
	if s2.Offset == s1.Offset {
		return s1.Color
	}
	return lerpLinear(s1.Color, s2.Color, (t-s1.Offset)/(s2.Offset-s1.Offset))
}

// CSS returns the gradient as a CSS background value.
func (g *Gradient) CSS() string {
	var b strings.Builder
	b.WriteString("linear-gradient(")
	b.WriteString(strconv.FormatFloat(g.Angle, 'f', -1, 64))
	b.WriteString("deg")
	for _, s := range g.Stops {
		b.WriteString(", ")
		b.WriteString(s.Color.Hex())
		b.WriteByte(' ')
		b.WriteString(strconv.FormatFloat(math.Round(s.Offset*10000)/100, 'f', -1, 64))
		b.WriteByte('%')
	}
	b.WriteByte(')')
	return b.String()
}

// Preview rasterizes the gradient at w x h. The gradient is evaluated on a
// tile of at most 64px per side and scaled up bilinearly, so cost does not
// grow with the requested size beyond the final copy.
func (g *Gradient) Preview(w, h int) *image.NRGBA {
	if w <= 0 || h <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	scale := min(1, float64(previewTile)/float64(max(w, h)))
	tw := max(1, int(math.Round(float64(w)*scale)))
	th := max(1, int(math.Round(float64(h)*scale)))

	tile := image.NewNRGBA(image.Rect(0, 0, tw, th))
	g.fill(tile)
	if tw == w && th == h {
		return tile
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), tile, tile.Bounds(), xdraw.Src, nil)
	return dst
}

// fill evaluates the gradient at every pixel center of img.
func (g *Gradient) fill(img *image.NRGBA) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	rad := g.Angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	// CSS gradient line length: the box projected onto the direction.
	length := math.Abs(w*dx) + math.Abs(h*dy)
	cx, cy := w/2, h/2

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := float64(x-b.Min.X) + 0.5 - cx
			py := float64(y-b.Min.Y) + 0.5 - cy
			t := 0.5
			if length > 0 {
				t = (px*dx+py*dy)/length + 0.5
			}
			img.SetNRGBA(x, y, g.ColorAt(t).NRGBA())
		}
	}
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}

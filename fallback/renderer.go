// Package fallback renders the static background shown whenever the heavy
// GPU effect is not running.
//
// The fallback is a CSS linear gradient per effect family. It needs no GPU
// context and no asynchronous resource, and it is the permanent background
// for devices that never activate the heavy effect, so palettes are chosen
// to stand on their own.
package fallback

import (
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gogpu/backdrop/effect"
)

// ClassName is the class of the fallback layer element.
const ClassName = "backdrop-fallback"

// DefaultPalette is used for effect types that are not registered.
var DefaultPalette = effect.Palette{
	Angle: 180,
	Stops: []effect.Stop{
		{Offset: 0, Color: "#0f172a"},
		{Offset: 1, Color: "#1e293b"},
	},
}

// Renderer resolves fallback gradients for effect types.
// Parsed gradients are cached; the zero value is not usable, use New.
type Renderer struct {
	registry *effect.Registry

	mu        sync.Mutex
	gradients map[effect.Type]*Gradient
	def       *Gradient
}

// New creates a Renderer over r. A nil r uses effect.Default().
func New(r *effect.Registry) *Renderer {
	if r == nil {
		r = effect.Default()
	}
	def, err := NewGradient(DefaultPalette)
	if err != nil {
		panic("fallback: invalid default palette: " + err.Error())
	}
	return &Renderer{
		registry:  r,
		gradients: make(map[effect.Type]*Gradient),
		def:       def,
	}
}

// Gradient returns the gradient for et. Unknown effect types and invalid
// palettes get the default gradient; Gradient never fails.
func (r *Renderer) Gradient(et effect.Type) *Gradient {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g, ok := r.gradients[et]; ok {
		return g
	}
	g := r.def
	if spec, err := r.registry.Lookup(et); err == nil {
		if parsed, err := NewGradient(spec.Fallback); err == nil {
			g = parsed
		}
	}
	r.gradients[et] = g
	return g
}

// Node returns the fallback layer element for et.
func (r *Renderer) Node(et effect.Type) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr: []html.Attribute{
			{Key: "class", Val: ClassName},
			{Key: "aria-hidden", Val: "true"},
			{Key: "style", Val: "position:absolute;inset:0;background:" + r.Gradient(et).CSS()},
		},
	}
}

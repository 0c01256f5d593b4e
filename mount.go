package backdrop

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gogpu/backdrop/activation"
	"github.com/gogpu/backdrop/effect"
)

// Markup class names.
const (
	RootClassName   = "backdrop"
	CanvasClassName = "backdrop-canvas"
)

// Props are the caller's settings for one mount.
type Props struct {
	Effect                 effect.Type
	ClassName              string
	DisableAnimation       bool
	EnableMouseInteraction bool
}

// Mount is one backdrop mount point.
type Mount struct {
	id      uuid.UUID
	props   Props
	ctrl    *Controller
	machine *activation.Machine
}

func newMount(c *Controller, props Props) *Mount {
	return &Mount{id: uuid.New(), props: props, ctrl: c}
}

// ID identifies the mount in logs. It is not part of the markup.
func (m *Mount) ID() string { return m.id.String() }

// Props returns the props the mount was created with.
func (m *Mount) Props() Props { return m.props }

// State returns the current activation state.
func (m *Mount) State() activation.State { return m.machine.State() }

// Err returns the load or runtime failure, if any.
func (m *Mount) Err() error { return m.machine.Err() }

// Transitions returns the mount's state history.
func (m *Mount) Transitions() []activation.Transition { return m.machine.History() }

// Wait blocks until the mount reaches one of states or an absorbing state.
func (m *Mount) Wait(ctx context.Context, states ...activation.State) (activation.State, error) {
	return m.machine.Wait(ctx, states...)
}

// SetPointer forwards the pointer position in CSS pixels. It has effect only
// while the GPU effect runs with mouse interaction enabled by both the props
// and the device tier.
func (m *Mount) SetPointer(x, y float64) { m.machine.Pointer(x, y) }

// Fail reports a failure caught by the host around the running effect. The
// mount falls back to the static gradient.
func (m *Mount) Fail(err error) { m.machine.Fail(err) }

// Dispose tears the mount down. It is safe to call more than once.
func (m *Mount) Dispose() {
	m.machine.Dispose()
	m.ctrl.forget(m)
}

func (m *Mount) onTransition(t activation.Transition) {
	log := m.ctrl.logger()
	if t.To == activation.Ready {
		log.Info("backdrop: effect active", "mount", m.ID(), "effect", string(m.props.Effect))
	}
	if h := m.ctrl.opts.hook; h != nil {
		h(m.ID(), t)
	}
}

// Node builds the mount's markup tree for its current state. The tree for
// not-ready is the same before and after client evaluation starts.
func (m *Mount) Node() *html.Node {
	state := m.State()
	class := RootClassName
	if m.props.ClassName != "" {
		class += " " + m.props.ClassName
	}
	root := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     "div",
		Attr: []html.Attribute{
			{Key: "class", Val: class},
			{Key: "data-effect", Val: string(m.props.Effect)},
			{Key: "data-state", Val: state.String()},
			{Key: "style", Val: "position:relative;overflow:hidden"},
		},
	}
	if state.Active() {
		root.AppendChild(&html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Canvas,
			Data:     "canvas",
			Attr: []html.Attribute{
				{Key: "class", Val: CanvasClassName},
				{Key: "aria-hidden", Val: "true"},
				{Key: "style", Val: "position:absolute;inset:0;width:100%;height:100%"},
			},
		})
		return root
	}
	root.AppendChild(m.ctrl.fallback.Node(m.props.Effect))
	return root
}

// Render writes the mount's markup to w.
func (m *Mount) Render(w io.Writer) error {
	return html.Render(w, m.Node())
}

// Markup returns the mount's markup as a string.
func (m *Mount) Markup() string {
	var b strings.Builder
	if err := m.Render(&b); err != nil {
		m.ctrl.logger().Error("backdrop: render markup", "err", err)
	}
	return b.String()
}

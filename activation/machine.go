package activation

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/gogpu/backdrop/effect"
	"github.com/gogpu/backdrop/internal/logging"
	"github.com/gogpu/backdrop/probe"
	"github.com/gogpu/backdrop/quality"
	"github.com/gogpu/backdrop/visibility"
)

// DefaultLoadDelay is the pause between becoming visible and starting the load.
const DefaultLoadDelay = 100 * time.Millisecond

// ErrDisposed is returned by waits on a machine that has been disposed.
var ErrDisposed = errors.New("activation: machine disposed")

// Assessment is what the machine learns about the device at capability check.
// A non-nil Err is a configuration failure and forces the static path.
type Assessment struct {
	Caps     probe.Capabilities
	Score    quality.Score
	Settings quality.Settings
	Err      error
}

// Config wires a Machine to its collaborators.
type Config struct {
	Effect effect.Type

	// DisableAnimation forces the static path.
	DisableAnimation bool

	// MouseInteraction is the caller's request; the tier must also allow it.
	MouseInteraction bool

	// Interactive reports whether a live client context exists. Nil means yes.
	Interactive func() bool

	// Assess probes and scores the device. It runs at most once.
	Assess func() Assessment

	Gate    *visibility.Gate
	Element visibility.Element
	Loader  Loader

	Clock     clock.Clock
	LoadDelay time.Duration
	Logger    *slog.Logger

	// OnTransition observes every state change, in order, outside the
	// machine's lock. Deliveries are serialized but may arrive on a goroutine
	// other than the one that made the transition. The hook may call any
	// method of the machine.
	OnTransition func(Transition)
}

// Machine is the activation state machine for one mount. All methods are
// safe for concurrent use.
type Machine struct {
	cfg   Config
	clock clock.Clock
	log   *slog.Logger

	mu          sync.Mutex
	state       State
	started     bool
	disposed    bool
	eligible    bool
	loadStarted bool
	running     bool
	settings    quality.Settings
	err         error
	renderer    Renderer
	confirm     *clock.Timer
	delay       *clock.Timer
	cancelLoad  context.CancelFunc
	cancelRun   context.CancelFunc
	history     []Transition
	pending     []Transition
	delivering  bool
	changed     chan struct{}
}

// New creates a machine in NotReady. Call Start to schedule confirmation.
func New(cfg Config) *Machine {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.LoadDelay <= 0 {
		cfg.LoadDelay = DefaultLoadDelay
	}
	if cfg.Gate == nil {
		cfg.Gate = visibility.NewGate(visibility.Always{}, visibility.DefaultOptions())
	}
	return &Machine{
		cfg:     cfg,
		clock:   cfg.Clock,
		log:     logging.Or(cfg.Logger).With("effect", string(cfg.Effect)),
		state:   NotReady,
		changed: make(chan struct{}),
	}
}

// Start schedules the deferred client confirmation. It never transitions
// synchronously, so markup produced right after Start still shows NotReady.
// Calls after the first are no-ops.
func (m *Machine) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started || m.disposed {
		return
	}
	m.started = true
	m.confirm = m.clock.AfterFunc(0, m.onConfirm)
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Err returns the failure that moved the machine to Error, if any.
func (m *Machine) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Eligible reports the outcome of the capability check. It is false until
// the check has run.
func (m *Machine) Eligible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eligible
}

// Settings returns the settings handed to the renderer. The zero value is
// returned before the capability check.
func (m *Machine) Settings() quality.Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings
}

// History returns every transition so far, oldest first.
func (m *Machine) History() []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.history)
}

// Running reports whether the heavy renderer has started and not stopped.
func (m *Machine) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Disposed reports whether Dispose has been called.
func (m *Machine) Disposed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}

// Wait blocks until the machine is in one of states, is in an absorbing
// state, or ctx ends. It returns the state it observed last.
func (m *Machine) Wait(ctx context.Context, states ...State) (State, error) {
	for {
		m.mu.Lock()
		s, ch, disposed := m.state, m.changed, m.disposed
		m.mu.Unlock()

		if slices.Contains(states, s) || s.Absorbing() {
			return s, nil
		}
		if disposed {
			return s, ErrDisposed
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return s, ctx.Err()
		}
	}
}

func (m *Machine) onConfirm() {
	interactive := m.cfg.Interactive == nil || m.cfg.Interactive()

	m.mu.Lock()
	m.confirm = nil
	if m.disposed || m.state != NotReady {
		m.mu.Unlock()
		return
	}
	if !interactive {
		m.mu.Unlock()
		m.log.Debug("activation: no client context, staying not-ready")
		return
	}
	m.setLocked(ClientConfirmed)
	m.unlockAndNotify()

	a := m.assess()

	m.mu.Lock()
	if m.disposed || m.state != ClientConfirmed {
		m.mu.Unlock()
		return
	}
	m.settings = a.Settings
	m.settings.MouseInteraction = a.Settings.MouseInteraction && m.cfg.MouseInteraction
	m.eligible = a.Err == nil && !m.cfg.DisableAnimation && quality.Eligible(a.Caps, a.Score)
	m.setLocked(CapabilityChecked)
	if !m.eligible {
		m.setLocked(Static)
		m.unlockAndNotify()
		switch {
		case a.Err != nil:
			m.log.Error("activation: configuration failure, rendering fallback", "err", a.Err)
		case m.cfg.DisableAnimation:
			m.log.Debug("activation: animation disabled by caller")
		default:
			m.log.Debug("activation: device not eligible",
				"score", a.Score.Value, "tier", a.Score.Tier.String(), "caps", a.Caps.String())
		}
		return
	}
	m.unlockAndNotify()

	m.log.Debug("activation: eligible, waiting for visibility",
		"score", a.Score.Value, "tier", a.Score.Tier.String())

	// The gate may fire synchronously, so it is never called under m.mu.
	if err := m.cfg.Gate.Observe(m.cfg.Element, m.onVisible); err != nil {
		if errors.Is(err, visibility.ErrGateDisposed) {
			return
		}
		m.log.Warn("activation: visibility observation failed", "err", err)
		m.mu.Lock()
		if !m.disposed && m.state == CapabilityChecked {
			m.setLocked(Static)
		}
		m.unlockAndNotify()
	}
}

func (m *Machine) assess() (a Assessment) {
	defer func() {
		if p := recover(); p != nil {
			a = Assessment{Err: errors.New("activation: capability assessment panicked")}
			m.log.Error("activation: assessment panicked", "panic", p)
		}
	}()
	if m.cfg.Assess == nil {
		return Assessment{Caps: probe.Neutral(), Score: quality.ScoreCapabilities(probe.Neutral()),
			Err: errors.New("activation: no assessment configured")}
	}
	return m.cfg.Assess()
}

func (m *Machine) onVisible() {
	m.mu.Lock()
	if m.disposed || m.state != CapabilityChecked {
		m.mu.Unlock()
		return
	}
	m.setLocked(Visible)
	m.delay = m.clock.AfterFunc(m.cfg.LoadDelay, m.beginLoad)
	m.unlockAndNotify()
}

func (m *Machine) beginLoad() {
	m.mu.Lock()
	m.delay = nil
	if m.disposed || m.state != Visible || m.loadStarted {
		m.mu.Unlock()
		return
	}
	m.loadStarted = true
	m.setLocked(Loading)
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelLoad = cancel
	m.unlockAndNotify()

	m.log.Debug("activation: loading renderer")
	go func() {
		res := load(ctx, m.cfg.Loader, m.cfg.Effect)
		m.finishLoad(res)
	}()
}

func (m *Machine) finishLoad(res LoadResult) {
	m.mu.Lock()
	if m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}
	if m.disposed || m.state != Loading {
		m.mu.Unlock()
		return
	}
	if !res.OK() {
		m.err = res.Err
		m.setLocked(Error)
		m.unlockAndNotify()
		m.log.Warn("activation: renderer load failed, rendering fallback", "err", res.Err)
		return
	}
	r := res.Renderer
	m.renderer = r
	settings := m.settings
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelRun = cancel
	m.setLocked(Ready)
	m.unlockAndNotify()

	err := start(ctx, r, settings, m.Fail)

	m.mu.Lock()
	if err == nil && !m.disposed && m.state == Ready {
		m.running = true
		m.mu.Unlock()
		m.log.Debug("activation: renderer running", "fps", settings.TargetFPS)
		return
	}
	m.mu.Unlock()

	if err != nil {
		m.Fail(err)
		return
	}
	// Disposed or failed while starting.
	r.Stop()
}

// Fail reports a runtime failure of the heavy renderer. The machine moves to
// Error and the fallback is shown. Calls in any state other than Loading or
// Ready are ignored.
func (m *Machine) Fail(err error) {
	if err == nil {
		err = errors.New("activation: renderer failed")
	}
	m.mu.Lock()
	if m.disposed || (m.state != Ready && m.state != Loading) {
		m.mu.Unlock()
		return
	}
	m.err = err
	m.setLocked(Error)
	if m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}
	r := m.stopLocked()
	m.unlockAndNotify()

	m.log.Warn("activation: renderer failed, rendering fallback", "err", err)
	if r != nil {
		// Fail may be called from the renderer's own loop.
		go r.Stop()
	}
}

// Pointer forwards a pointer position to a running renderer that accepts it.
// A panic in the renderer is treated as a runtime failure.
func (m *Machine) Pointer(x, y float64) {
	m.mu.Lock()
	r, ok := m.renderer.(PointerReceiver)
	active := m.running && m.settings.MouseInteraction && !m.disposed
	m.mu.Unlock()
	if !ok || !active {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			m.Fail(errors.New("activation: renderer panicked on pointer"))
		}
	}()
	r.Pointer(x, y)
}

// Dispose tears the mount down. Pending timers are cancelled, an in-flight
// load is abandoned, the visibility observation is released and a running
// renderer is stopped. Signals arriving later are discarded. Dispose is
// idempotent.
func (m *Machine) Dispose() {
	m.mu.Lock()
	if m.disposed {
		m.mu.Unlock()
		return
	}
	m.disposed = true
	if m.confirm != nil {
		m.confirm.Stop()
		m.confirm = nil
	}
	if m.delay != nil {
		m.delay.Stop()
		m.delay = nil
	}
	if m.cancelLoad != nil {
		m.cancelLoad()
		m.cancelLoad = nil
	}
	r := m.stopLocked()
	close(m.changed)
	m.changed = make(chan struct{})
	m.mu.Unlock()

	m.cfg.Gate.Dispose()
	if r != nil {
		r.Stop()
	}
	m.log.Debug("activation: disposed")
}

// stopLocked cancels the render context and returns the renderer to stop,
// if one is running.
func (m *Machine) stopLocked() Renderer {
	if m.cancelRun != nil {
		m.cancelRun()
		m.cancelRun = nil
	}
	if !m.running {
		return nil
	}
	m.running = false
	return m.renderer
}

// setLocked moves to s. Illegal transitions are dropped and logged.
func (m *Machine) setLocked(s State) {
	if s == m.state {
		return
	}
	if !CanTransition(m.state, s) {
		m.log.Error("activation: illegal transition", "from", m.state.String(), "to", s.String())
		return
	}
	t := Transition{From: m.state, To: s, At: m.clock.Now()}
	m.state = s
	m.history = append(m.history, t)
	m.pending = append(m.pending, t)
	close(m.changed)
	m.changed = make(chan struct{})
}

// unlockAndNotify releases m.mu and delivers pending transitions. Only one
// goroutine delivers at a time; transitions queued while it runs the hook are
// picked up by that goroutine, so order is kept without holding m.mu.
func (m *Machine) unlockAndNotify() {
	if m.cfg.OnTransition == nil {
		m.pending = nil
		m.mu.Unlock()
		return
	}
	if m.delivering {
		m.mu.Unlock()
		return
	}
	m.delivering = true
	for len(m.pending) > 0 {
		batch := m.pending
		m.pending = nil
		m.mu.Unlock()
		for _, t := range batch {
			m.deliver(t)
		}
		m.mu.Lock()
	}
	m.delivering = false
	m.mu.Unlock()
}

// deliver runs the hook for t. A panicking hook is logged and skipped.
func (m *Machine) deliver(t Transition) {
	defer func() {
		if p := recover(); p != nil {
			m.log.Error("activation: transition hook panicked",
				"from", t.From.String(), "to", t.To.String(), "panic", p)
		}
	}()
	m.cfg.OnTransition(t)
}

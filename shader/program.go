package shader

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/gogpu/backdrop/activation"
	"github.com/gogpu/backdrop/quality"
)

// Program errors.
var (
	ErrAlreadyStarted = errors.New("shader: program already started")
	ErrInvalidFPS     = errors.New("shader: target fps must be positive")
)

// Program runs one compiled module. It implements activation.Renderer and
// activation.PointerReceiver.
type Program struct {
	module *Module
	sink   Sink
	clock  clock.Clock

	mu         sync.Mutex
	started    bool
	cancel     context.CancelFunc
	done       chan struct{}
	cssW, cssH float64
	dpr        float64
	pointer    [2]float64
	hasPointer bool

	frames atomic.Uint64
}

// NewProgram creates a stopped program for m. A nil sink discards frames.
func NewProgram(m *Module, sink Sink, c clock.Clock) *Program {
	if sink == nil {
		sink = Discard
	}
	if c == nil {
		c = clock.New()
	}
	return &Program{
		module: m,
		sink:   sink,
		clock:  c,
		cssW:   1,
		cssH:   1,
		dpr:    1,
		done:   make(chan struct{}),
	}
}

// Module returns the compiled module.
func (p *Program) Module() *Module { return p.module }

// Resize sets the layout size in CSS pixels and the device pixel ratio.
func (p *Program) Resize(w, h, dpr float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cssW, p.cssH = math.Max(w, 1), math.Max(h, 1)
	if dpr > 0 {
		p.dpr = dpr
	}
}

// Pointer records the pointer position in CSS pixels.
func (p *Program) Pointer(x, y float64) {
	p.mu.Lock()
	p.pointer = [2]float64{x, y}
	p.hasPointer = true
	p.mu.Unlock()
}

// Frames returns the number of frames delivered so far.
func (p *Program) Frames() uint64 { return p.frames.Load() }

// Done is closed when the frame loop exits.
func (p *Program) Done() <-chan struct{} { return p.done }

// Start launches the frame loop at s.TargetFPS.
func (p *Program) Start(ctx context.Context, s quality.Settings, fail func(error)) error {
	if s.TargetFPS <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFPS, s.TargetFPS)
	}
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	p.started = true
	ctx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	start := p.clock.Now()
	ticker := p.clock.Ticker(time.Second / time.Duration(s.TargetFPS))
	go p.loop(ctx, ticker, start, s, fail)
	return nil
}

// Stop ends the frame loop. It does not wait for the loop to exit.
func (p *Program) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (p *Program) loop(ctx context.Context, ticker *clock.Ticker, start time.Time, s quality.Settings, fail func(error)) {
	defer close(p.done)
	defer ticker.Stop()

	last := start
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			f := p.frame(s, now.Sub(start), now.Sub(last))
			last = now
			if err := p.draw(f); err != nil {
				if fail != nil {
					fail(err)
				}
				return
			}
			p.frames.Add(1)
		}
	}
}

func (p *Program) frame(s quality.Settings, elapsed, delta time.Duration) Frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	ratio := math.Min(p.dpr, s.MaxPixelRatio)
	if ratio <= 0 {
		ratio = 1
	}
	f := Frame{
		Index:    p.frames.Load(),
		Time:     elapsed.Seconds(),
		Delta:    delta.Seconds(),
		Width:    math.Round(p.cssW * ratio),
		Height:   math.Round(p.cssH * ratio),
		Settings: s,
	}
	if s.MouseInteraction && p.hasPointer {
		f.PointerX, f.PointerY = p.pointer[0]*ratio, p.pointer[1]*ratio
		f.HasPointer = true
	}
	return f
}

func (p *Program) draw(f Frame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("shader: %s draw panicked: %v", p.module.Name, r)
		}
	}()
	return p.sink.Draw(p.module, f)
}

var (
	_ activation.Renderer        = (*Program)(nil)
	_ activation.PointerReceiver = (*Program)(nil)
)

package activation

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/backdrop/effect"
	"github.com/gogpu/backdrop/quality"
)

// ErrNilRenderer is reported when a loader returns neither a renderer nor an error.
var ErrNilRenderer = errors.New("activation: loader returned nil renderer")

// Renderer is the heavy GPU effect once its module is loaded.
type Renderer interface {
	// Start begins rendering with s. fail reports a runtime failure at any
	// later time and may be called from any goroutine. Start must not block
	// on the rendering loop.
	Start(ctx context.Context, s quality.Settings, fail func(error)) error

	// Stop ends rendering and releases resources. It must be safe to call
	// more than once and must not wait for a goroutine that is calling fail.
	Stop()
}

// PointerReceiver is implemented by renderers that react to the pointer.
type PointerReceiver interface {
	Pointer(x, y float64)
}

// Loader fetches and evaluates the heavy renderer module for an effect.
type Loader interface {
	Load(ctx context.Context, et effect.Type) (Renderer, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, et effect.Type) (Renderer, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, et effect.Type) (Renderer, error) {
	return f(ctx, et)
}

// LoadResult is the outcome of one load attempt: Loaded or Failed.
type LoadResult struct {
	Renderer Renderer
	Err      error
}

// Loaded wraps a successfully loaded renderer.
func Loaded(r Renderer) LoadResult { return LoadResult{Renderer: r} }

// Failed wraps a load failure.
func Failed(err error) LoadResult { return LoadResult{Err: err} }

// OK reports whether the load succeeded.
func (r LoadResult) OK() bool { return r.Err == nil && r.Renderer != nil }

// load runs l and folds every failure mode into a Failed result.
func load(ctx context.Context, l Loader, et effect.Type) (res LoadResult) {
	defer func() {
		if p := recover(); p != nil {
			res = Failed(fmt.Errorf("activation: loader panicked: %v", p))
		}
	}()
	if l == nil {
		return Failed(errors.New("activation: no loader configured"))
	}
	r, err := l.Load(ctx, et)
	switch {
	case err != nil:
		return Failed(err)
	case r == nil:
		return Failed(ErrNilRenderer)
	}
	return Loaded(r)
}

// start calls r.Start, converting a panic into an error.
func start(ctx context.Context, r Renderer, s quality.Settings, fail func(error)) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("activation: renderer panicked on start: %v", p)
		}
	}()
	return r.Start(ctx, s, fail)
}

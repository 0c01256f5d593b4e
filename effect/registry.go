package effect

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrNotRegistered is returned when an effect type has no registered spec.
var ErrNotRegistered = errors.New("effect: not registered")

// Registry maps effect types to specs. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	specs map[Type]Spec
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[Type]Spec)}
}

// Register adds or replaces the spec for s.Type.
func (r *Registry) Register(s Spec) error {
	if err := s.Validate(); err != nil {
		return err
	}
	s.Fallback.Stops = slices.Clone(s.Fallback.Stops)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.specs[s.Type] = s
	return nil
}

// Unregister removes t from the registry.
// This is useful for testing.
func (r *Registry) Unregister(t Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.specs, t)
}

// Lookup returns the spec registered for t.
func (r *Registry) Lookup(t Type) (Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.specs[t]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrNotRegistered, t)
	}
	s.Fallback.Stops = slices.Clone(s.Fallback.Stops)
	return s, nil
}

// Types returns the registered effect types in sorted order.
func (r *Registry) Types() []Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]Type, 0, len(r.specs))
	for t := range r.specs {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

var defaultRegistry = Builtin()

// Default returns the process-wide registry holding the built-in effects.
// Pages that need isolation pass their own Registry to the controller.
func Default() *Registry { return defaultRegistry }

// Register adds s to the default registry.
// This is typically called from init() functions in effect packages.
func Register(s Spec) error { return defaultRegistry.Register(s) }

// Lookup returns the spec for t from the default registry.
func Lookup(t Type) (Spec, error) { return defaultRegistry.Lookup(t) }

// Package memo provides a small concurrency-safe memoization table.
//
// Values are computed at most once per key and never evicted; the table is
// meant for tiny, bounded key spaces such as (effect, tier) pairs. A table is
// owned by one controller, so nothing outlives the page it was created for.
package memo

import (
	"sync"
	"sync/atomic"
)

// Stats reports table usage.
type Stats struct {
	Len     int
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// Table memoizes values by key.
type Table[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V

	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates an empty table.
func New[K comparable, V any]() *Table[K, V] {
	return &Table[K, V]{entries: make(map[K]V)}
}

// Get returns the memoized value for key, if any.
func (t *Table[K, V]) Get(key K) (V, bool) {
	t.mu.RLock()
	v, ok := t.entries[key]
	t.mu.RUnlock()
	if ok {
		t.hits.Add(1)
	} else {
		t.misses.Add(1)
	}
	return v, ok
}

// GetOrCreate returns the memoized value for key or computes it with create.
//
// create runs under the table lock, so concurrent callers for the same key
// never compute twice. Keep create fast and free of calls back into t.
// A create error is returned as-is and nothing is stored.
func (t *Table[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	t.mu.RLock()
	v, ok := t.entries[key]
	t.mu.RUnlock()
	if ok {
		t.hits.Add(1)
		return v, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	// Re-check after acquiring write lock
	if v, ok := t.entries[key]; ok {
		t.hits.Add(1)
		return v, nil
	}

	t.misses.Add(1)
	v, err := create()
	if err != nil {
		var zero V
		return zero, err
	}
	t.entries[key] = v
	return v, nil
}

// Len returns the number of memoized entries.
func (t *Table[K, V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Stats returns current statistics.
func (t *Table[K, V]) Stats() Stats {
	hits := t.hits.Load()
	misses := t.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}
	return Stats{
		Len:     t.Len(),
		Hits:    hits,
		Misses:  misses,
		HitRate: hitRate,
	}
}

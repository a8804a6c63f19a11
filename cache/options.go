package cache

import (
	"errors"
	"math"
)

// MaxCapacity is the largest Capacity accepted by New. The arena is addressed
// by int32 handles and briefly holds Capacity+1 nodes during an insert.
const MaxCapacity = math.MaxInt32 - 1

// ErrInvalidCapacity is returned by NewChecked (and carried by the panic in New)
// when Options.Capacity is outside [1, MaxCapacity].
var ErrInvalidCapacity = errors.New("cache: capacity must be in [1, MaxCapacity]")

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict()
	Size(entries int)
}

// Options configures the cache. Only Capacity is required; nil hooks are
// replaced with defaults in New:
//   - nil Metrics => NoopMetrics
//   - nil Clone   => values are returned by plain assignment
//   - nil OnEvict => no callback
type Options[K comparable, V any] struct {
	// Capacity is the entry count limit. It never changes after New.
	Capacity int

	// OnEvict is called after the least recently used entry has been removed
	// from the cache to make room. The cache is consistent when it runs, but
	// the callback must not call back into the same Cache.
	OnEvict func(k K, v V)

	// Clone, if set, is applied to every value returned by Get. Use it when V
	// holds slices, maps or pointers and callers must not alias stored state.
	Clone func(v V) V

	// Metrics receives Hit/Miss/Evict/Size signals.
	Metrics Metrics
}

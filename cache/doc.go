// Package cache provides a generic, fixed-capacity key/value cache with
// least-recently-used (LRU) eviction.
//
// # Design
//
//   - Storage: a map[K]handle index plus an arena ([]node) holding the entries.
//     Nodes are linked into a MRU↔LRU doubly linked chain by integer handle,
//     so there are no pointer cycles and removal is explicit. Slots freed by
//     eviction go on a free list and are reused by the next insert.
//
//   - Operations: Get promotes the entry to MRU; Put inserts or overwrites and
//     promotes. When an insert pushes the size past Capacity, exactly one
//     entry, the LRU tail, is evicted. All operations are O(1) expected.
//
//   - Capacity: fixed at construction and must be at least 1. New panics on
//     an invalid Capacity; NewChecked returns ErrInvalidCapacity instead.
//
//   - Values: Get returns V by value. For V containing slices, maps or
//     pointers that is a shallow copy; set Options.Clone to return deep copies.
//
//   - Hooks: Options.OnEvict(k, v) is called for every eviction, and
//     Options.Metrics receives Hit/Miss/Evict/Size signals (NoopMetrics by
//     default; see package metrics/prom for a Prometheus adapter).
//
// # Basic usage
//
//	c := cache.New[int, string](cache.Options[int, string]{Capacity: 2})
//	c.Put(1, "one")
//	c.Put(2, "two")
//	c.Get(1)          // "one", true; 1 is now MRU
//	c.Put(3, "three") // evicts 2
//	_, ok := c.Get(2) // ok == false
//
// # Thread-safety
//
// A Cache has no internal locking. Either keep it owned by one goroutine or
// guard every call with a mutex in the calling code.
package cache

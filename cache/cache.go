package cache

import "fmt"

// maxPrealloc bounds the entries reserved by New before anything is stored.
const maxPrealloc = 1024

// Cache is a fixed-capacity key/value store with least-recently-used eviction.
//
// Entries live in an arena (a flat slice of nodes) and are addressed by
// handle from both the key index and the MRU↔LRU chain. Released slots are
// kept on a free list and reused by later inserts.
//
// Cache is NOT safe for concurrent use. A single owner must drive it, or the
// caller must serialize access with its own lock.
type Cache[K comparable, V any] struct {
	capacity int
	index    map[K]handle
	nodes    []node[K, V]
	free     []handle
	head     handle // MRU
	tail     handle // LRU

	opt Options[K, V]
}

// New constructs an empty cache.
// It panics with an error wrapping ErrInvalidCapacity when opt.Capacity is
// outside [1, MaxCapacity]. Use NewChecked to get the error instead.
func New[K comparable, V any](opt Options[K, V]) *Cache[K, V] {
	c, err := NewChecked(opt)
	if err != nil {
		panic(err)
	}
	return c
}

// NewChecked is New for callers that derive Capacity from input.
func NewChecked[K comparable, V any](opt Options[K, V]) (*Cache[K, V], error) {
	if opt.Capacity < 1 || opt.Capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, opt.Capacity)
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	// Size hints are capped; large caches grow on demand.
	hint := min(opt.Capacity+1, maxPrealloc)
	return &Cache[K, V]{
		capacity: opt.Capacity,
		index:    make(map[K]handle, hint),
		nodes:    make([]node[K, V], 0, hint),
		head:     nilHandle,
		tail:     nilHandle,
		opt:      opt,
	}, nil
}

// Get returns the value for k and whether it was present.
// On a hit the entry becomes the most recently used. A miss has no effect
// on recency order.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	h, ok := c.index[k]
	if !ok {
		c.opt.Metrics.Miss()
		var zero V
		return zero, false
	}
	c.moveToFront(h)
	c.opt.Metrics.Hit()

	v := c.nodes[h].val
	if c.opt.Clone != nil {
		v = c.opt.Clone(v)
	}
	return v, true
}

// Put inserts or overwrites k→v and makes it the most recently used entry.
// Inserting a new key into a full cache evicts exactly one entry, the least
// recently used one.
func (c *Cache[K, V]) Put(k K, v V) {
	if h, ok := c.index[k]; ok {
		c.nodes[h].val = v
		c.moveToFront(h)
		c.opt.Metrics.Size(len(c.index))
		return
	}

	h := c.alloc(k, v)
	c.index[k] = h
	c.attachFront(h)

	if len(c.index) > c.capacity {
		// capacity >= 1, so the tail is never the node just attached.
		c.evict(c.tail)
	}
	c.opt.Metrics.Size(len(c.index))
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return len(c.index) }

// Cap returns the capacity the cache was built with.
func (c *Cache[K, V]) Cap() int { return c.capacity }

// -------------------- chain internals --------------------

// moveToFront promotes h to MRU in O(1).
func (c *Cache[K, V]) moveToFront(h handle) {
	if h == c.head {
		return
	}
	c.detach(h)
	c.attachFront(h)
}

// detach unlinks h from the chain without touching the index.
func (c *Cache[K, V]) detach(h handle) {
	n := &c.nodes[h]
	if n.prev != nilHandle {
		c.nodes[n.prev].next = n.next
	} else {
		c.head = n.next
	}
	if n.next != nilHandle {
		c.nodes[n.next].prev = n.prev
	} else {
		c.tail = n.prev
	}
	n.prev, n.next = nilHandle, nilHandle
}

// attachFront links an unlinked node in at MRU.
func (c *Cache[K, V]) attachFront(h handle) {
	n := &c.nodes[h]
	n.prev = nilHandle
	n.next = c.head
	if c.head != nilHandle {
		c.nodes[c.head].prev = h
	}
	c.head = h
	if c.tail == nilHandle {
		c.tail = h
	}
}

// evict removes h from the chain and the index, frees its slot,
// then reports it to OnEvict and Metrics.
func (c *Cache[K, V]) evict(h handle) {
	k, v := c.nodes[h].key, c.nodes[h].val
	c.detach(h)
	delete(c.index, k)
	c.release(h)

	c.opt.Metrics.Evict()
	if cb := c.opt.OnEvict; cb != nil {
		cb(k, v)
	}
}

package cache

// handle addresses a node in the cache's arena. nilHandle means "no node".
type handle int32

const nilHandle handle = -1

// node is one cache entry. It lives in the arena owned by the Cache and is
// linked into the MRU↔LRU chain by handle, never by pointer.
type node[K comparable, V any] struct {
	key K
	val V

	// Chain links: head is MRU, tail is LRU.
	prev handle
	next handle
}

// alloc places (k, v) into a free slot, growing the arena only when the
// free list is empty. The returned node is unlinked.
func (c *Cache[K, V]) alloc(k K, v V) handle {
	n := node[K, V]{key: k, val: v, prev: nilHandle, next: nilHandle}
	if last := len(c.free) - 1; last >= 0 {
		h := c.free[last]
		c.free = c.free[:last]
		c.nodes[h] = n
		return h
	}
	c.nodes = append(c.nodes, n)
	return handle(len(c.nodes) - 1)
}

// release zeroes the slot so K/V can be collected and returns it to the free list.
// The node must already be detached and unindexed.
func (c *Cache[K, V]) release(h handle) {
	c.nodes[h] = node[K, V]{prev: nilHandle, next: nilHandle}
	c.free = append(c.free, h)
}

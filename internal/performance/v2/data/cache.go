package data

import lru "github.com/hashicorp/golang-lru/v2"

// rowCache backs Provider's vuCache/iterCache. By default (size 0) it is an
// unbounded plain map, preserving the spec's "no eviction policy" default
// (§9 Design Notes); a positive size switches to an LRU of that size, the
// same bounded-cache pattern OPA's evaluator uses for its internal caches.
type rowCache[K comparable] struct {
	plain map[K]*Row
	lru   *lru.Cache[K, *Row]
}

func newRowCache[K comparable](size int) *rowCache[K] {
	if size <= 0 {
		return &rowCache[K]{plain: make(map[K]*Row)}
	}
	c, err := lru.New[K, *Row](size)
	if err != nil {
		// size is always validated > 0 above, so New cannot fail here.
		return &rowCache[K]{plain: make(map[K]*Row)}
	}
	return &rowCache[K]{lru: c}
}

func (c *rowCache[K]) get(k K) (*Row, bool) {
	if c.lru != nil {
		return c.lru.Get(k)
	}
	r, ok := c.plain[k]
	return r, ok
}

func (c *rowCache[K]) set(k K, r *Row) {
	if c.lru != nil {
		c.lru.Add(k, r)
		return
	}
	c.plain[k] = r
}

func (c *rowCache[K]) delete(k K) {
	if c.lru != nil {
		c.lru.Remove(k)
		return
	}
	delete(c.plain, k)
}

func (c *rowCache[K]) clear() {
	if c.lru != nil {
		c.lru.Purge()
		return
	}
	for k := range c.plain {
		delete(c.plain, k)
	}
}

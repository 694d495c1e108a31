package cache

import (
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRU is a Cache bounded by entry count with least-recently-used eviction.
type LRU struct {
	entries *lru.Cache[uint32, []byte]
	size    atomic.Int64
}

var _ Cache = (*LRU)(nil)

// NewLRU creates an LRU cache holding at most maxEntries entries.
func NewLRU(maxEntries int) (*LRU, error) {
	c := &LRU{}
	entries, err := lru.NewWithEvict(maxEntries, func(_ uint32, content []byte) {
		c.size.Add(-int64(len(content)))
	})
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	c.entries = entries
	return c, nil
}

// Get implements Cache.
func (c *LRU) Get(key uint32) ([]byte, bool) {
	return c.entries.Get(key)
}

// Put implements Cache.
func (c *LRU) Put(key uint32, content []byte) {
	// Replacing an existing key does not fire the eviction callback.
	if old, ok := c.entries.Peek(key); ok {
		c.size.Add(-int64(len(old)))
	}
	c.size.Add(int64(len(content)))
	c.entries.Add(key, content)
}

// Delete implements Cache.
func (c *LRU) Delete(key uint32) {
	c.entries.Remove(key)
}

// Len implements Cache.
func (c *LRU) Len() int {
	return c.entries.Len()
}

// SizeBytes implements Cache.
func (c *LRU) SizeBytes() int64 {
	return c.size.Load()
}

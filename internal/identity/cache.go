package identity

import "sync"

// Cache holds normalized name keys to identity ids.
type Cache interface {
	Get(key string) (int64, bool)
	Set(key string, id int64)
	Snapshot() map[string]int64
	Len() int
}

// MemoryCache is a Cache backed by a map.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]int64
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]int64)}
}

func (c *MemoryCache) Get(key string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.entries[key]
	return id, ok
}

func (c *MemoryCache) Set(key string, id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = id
}

// Snapshot returns a copy of every entry.
func (c *MemoryCache) Snapshot() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]int64, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

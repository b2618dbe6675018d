// Package session keeps per-process secrets that must never reach durable
// storage, such as the decrypted API key.
package session

import "sync"

// Cache is a string map scoped to the running process.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// MemoryCache is a Cache safe for concurrent use. Its zero value is ready.
type MemoryCache struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *MemoryCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.values == nil {
		c.values = make(map[string]string)
	}
	c.values[key] = value
}

func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
}

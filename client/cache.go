package client

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long a cached GET response is served
const DefaultCacheTTL = time.Minute

type cacheEntry struct {
	data     any
	storedAt time.Time
}

// Cache holds decoded GET responses keyed by path. Values go in and come out
// as deep copies so callers can never mutate a cached entry.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now, entries: make(map[string]cacheEntry)}
}

// Get returns a copy of the entry for key while it is younger than the TTL
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return deepCopy(e.data), true
}

func (c *Cache) Set(key string, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{data: deepCopy(data), storedAt: c.now()}
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// deepCopy copies a decoded JSON tree
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}

package linkback

import (
	"context"
	"sync"
	"time"
)

// Cache is the interface for caching materialized record collections, used
// by source wrappers that want to avoid repeated full-collection fetches.
// It is distinct from the per-instance belongs-to-many memo, which is
// instance-local state and not expressed through this interface.
type Cache interface {
	// Get retrieves a cached collection. The second result reports whether
	// the key was present and unexpired.
	Get(ctx context.Context, key string) ([]Instance, bool)

	// Set stores a collection with an optional TTL.
	// If ttl is 0, the entry does not expire.
	Set(ctx context.Context, key string, values []Instance, ttl time.Duration)

	// Invalidate removes a single entry.
	Invalidate(ctx context.Context, key string)

	// Clear removes all entries.
	Clear(ctx context.Context)
}

// MemoryCache is an in-process Cache implementation.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	values    []Instance
	expiresAt time.Time // zero means no expiry
}

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) ([]Instance, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return e.values, true
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, values []Instance, ttl time.Duration) {
	e := memoryEntry{values: values}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// Invalidate implements Cache.
func (c *MemoryCache) Invalidate(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Clear implements Cache.
func (c *MemoryCache) Clear(_ context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
}

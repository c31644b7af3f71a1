// Package httpcache stores raw upstream response bodies keyed by request URL
// so repeated forecast lookups within the TTL skip the network.
package httpcache

import (
	"context"
	"sync"
	"time"
)

// Cache is implemented by the in-memory and Redis response caches.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
	// Purge drops expired entries and returns how many were removed.
	Purge(ctx context.Context) (int, error)
}

type memoryEntry struct {
	body      []byte
	expiresAt time.Time
}

// MemoryCache is a concurrency-safe in-process Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the cached body for key if present and not expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return e.body, true, nil
}

// Set stores body under key for ttl. A non-positive ttl is a no-op.
func (c *MemoryCache) Set(_ context.Context, key string, body []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	cp := make([]byte, len(body))
	copy(cp, body)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{body: cp, expiresAt: c.now().Add(ttl)}
	return nil
}

// Purge removes expired entries.
func (c *MemoryCache) Purge(_ context.Context) (int, error) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

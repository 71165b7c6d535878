package data

import (
	"sync"
	"time"
)

// cacheEntry pairs a cached value with the time it was stored.
type cacheEntry[T any] struct {
	value    T
	storedAt time.Time
}

// TTLCache is a small in-memory cache with per-cache expiry. Expired entries
// are kept so callers can deliberately fall back to stale data when a
// provider is unreachable.
type TTLCache[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry[T]
}

// NewTTLCache creates a cache whose entries are considered fresh for ttl.
func NewTTLCache[T any](ttl time.Duration) *TTLCache[T] {
	return &TTLCache[T]{
		ttl:     ttl,
		entries: make(map[string]cacheEntry[T]),
	}
}

// Get returns a fresh entry. ok is false when the key is absent or expired.
func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Since(entry.storedAt) >= c.ttl {
		var zero T
		return zero, false
	}
	return entry.value, true
}

// GetStale returns an entry regardless of age.
func (c *TTLCache[T]) GetStale(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	return entry.value, true
}

// Set stores a value under key, stamped with the current time.
func (c *TTLCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[T]{value: value, storedAt: time.Now()}
}

// Len returns the number of stored entries, fresh or stale.
func (c *TTLCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

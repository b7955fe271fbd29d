// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"sync"
	"time"
)

// CacheEntry represents a cached value with expiration
type CacheEntry[T any] struct {
	Value      T
	ExpiresAt  time.Time
	LastUpdate time.Time
}

// IsExpired checks if the cache entry has expired at now
func (e *CacheEntry[T]) IsExpired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// TTLCache is a thread-safe keyed cache with a single TTL. It holds resolved
// secrets only; tenant descriptors are never cached outside the router.
type TTLCache[T any] struct {
	entries map[string]*CacheEntry[T]
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	stats   CacheStats
}

// CacheStats tracks cache performance metrics
type CacheStats struct {
	Hits         int64
	Misses       int64
	Evictions    int64
	LastEviction time.Time
	mu           sync.Mutex
}

// NewTTLCache creates a cache with the specified TTL
func NewTTLCache[T any](ttl time.Duration) *TTLCache[T] {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TTLCache[T]{
		entries: make(map[string]*CacheEntry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// TTL returns the configured time to live
func (c *TTLCache[T]) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached value for key and whether it was a live hit
func (c *TTLCache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || entry.IsExpired(c.now()) {
		c.recordMiss()
		var zero T
		return zero, false
	}

	c.recordHit()
	return entry.Value, true
}

// Set caches value under key
func (c *TTLCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = &CacheEntry[T]{
		Value:      value,
		ExpiresAt:  now.Add(c.ttl),
		LastUpdate: now,
	}
}

// Invalidate removes key from the cache
func (c *TTLCache[T]) Invalidate(key string) {
	c.mu.Lock()
	_, existed := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()

	if existed {
		c.recordEvictions(1)
	}
}

// InvalidateAll clears the cache
func (c *TTLCache[T]) InvalidateAll() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]*CacheEntry[T])
	c.mu.Unlock()

	c.recordEvictions(n)
}

// Cleanup removes expired entries and returns how many were evicted
func (c *TTLCache[T]) Cleanup() int {
	c.mu.Lock()
	now := c.now()
	evicted := 0
	for key, entry := range c.entries {
		if entry.IsExpired(now) {
			delete(c.entries, key)
			evicted++
		}
	}
	c.mu.Unlock()

	c.recordEvictions(evicted)
	return evicted
}

// Len returns the number of entries, expired or not
func (c *TTLCache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetStats returns cache performance statistics
func (c *TTLCache[T]) GetStats() CacheStats {
	c.stats.mu.Lock()
	defer c.stats.mu.Unlock()
	// Return a copy of stats values to avoid copying the mutex
	return CacheStats{
		Hits:         c.stats.Hits,
		Misses:       c.stats.Misses,
		Evictions:    c.stats.Evictions,
		LastEviction: c.stats.LastEviction,
	}
}

// HitRate returns the cache hit rate as a percentage (0-100)
func (c *TTLCache[T]) HitRate() float64 {
	c.stats.mu.Lock()
	defer c.stats.mu.Unlock()

	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total) * 100
}

func (c *TTLCache[T]) recordHit() {
	c.stats.mu.Lock()
	c.stats.Hits++
	c.stats.mu.Unlock()
}

func (c *TTLCache[T]) recordMiss() {
	c.stats.mu.Lock()
	c.stats.Misses++
	c.stats.mu.Unlock()
}

func (c *TTLCache[T]) recordEvictions(n int) {
	if n == 0 {
		return
	}
	c.stats.mu.Lock()
	c.stats.Evictions += int64(n)
	c.stats.LastEviction = c.now()
	c.stats.mu.Unlock()
}

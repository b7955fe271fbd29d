// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"testing"
	"time"
)

func TestCacheEntry_IsExpired(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"not expired - future time", now.Add(time.Hour), false},
		{"expired - past time", now.Add(-time.Hour), true},
		{"exactly now", now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := &CacheEntry[string]{Value: "test", ExpiresAt: tt.expiresAt}
			if got := entry.IsExpired(now); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewTTLCache_DefaultTTL(t *testing.T) {
	if got := NewTTLCache[string](0).TTL(); got != 5*time.Minute {
		t.Errorf("TTL() = %v, want 5m", got)
	}
	if got := NewTTLCache[string](time.Second).TTL(); got != time.Second {
		t.Errorf("TTL() = %v, want 1s", got)
	}
}

func TestTTLCache_GetSetExpire(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewTTLCache[map[string]string](time.Minute)
	c.now = func() time.Time { return now }

	if _, ok := c.Get("secret/a"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("secret/a", map[string]string{"username": "u"})
	got, ok := c.Get("secret/a")
	if !ok || got["username"] != "u" {
		t.Fatalf("expected hit, got %v %v", got, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("secret/a"); ok {
		t.Fatal("expected expired entry to miss")
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 2 {
		t.Errorf("stats = {Hits:%d Misses:%d}, want 1 hit and 2 misses", stats.Hits, stats.Misses)
	}
	if rate := c.HitRate(); rate < 33 || rate > 34 {
		t.Errorf("HitRate() = %v, want ~33.3", rate)
	}
}

func TestTTLCache_InvalidateAndCleanup(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewTTLCache[int](time.Minute)
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	c.Set("b", 2)
	c.Invalidate("a")
	c.Invalidate("missing")

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}

	now = now.Add(time.Hour)
	c.Set("c", 3)
	if evicted := c.Cleanup(); evicted != 1 {
		t.Errorf("Cleanup() = %d, want 1", evicted)
	}

	c.InvalidateAll()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after InvalidateAll", c.Len())
	}

	if got := c.GetStats().Evictions; got != 3 {
		t.Errorf("Evictions = %d, want 3", got)
	}
}

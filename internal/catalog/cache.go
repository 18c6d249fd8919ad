package catalog

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// responseCache keeps successful responses for a fixed TTL and collapses concurrent loads of the
// same key into one upstream request.
type responseCache struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

func newResponseCache(ttl time.Duration, now func() time.Time) *responseCache {
	if now == nil {
		now = time.Now
	}
	return &responseCache{ttl: ttl, now: now, entries: make(map[string]cacheEntry)}
}

// load returns the cached value for key or runs fn. Errors are never cached. The shared load is
// detached from the caller's cancellation so one caller giving up does not fail the others.
func (c *responseCache) load(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	if c.ttl > 0 {
		if value, ok := c.lookup(key); ok {
			return value, nil
		}
	}

	ch := c.group.DoChan(key, func() (any, error) {
		value, err := fn(context.WithoutCancel(ctx))
		if err == nil && c.ttl > 0 {
			c.store(key, value)
		}
		return value, err
	})

	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *responseCache) lookup(key string) (any, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		if current, ok := c.entries[key]; ok && current.expiresAt.Equal(entry.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (c *responseCache) store(key string, value any) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

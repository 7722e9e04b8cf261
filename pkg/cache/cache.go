// Package cache provides a small in-process TTL cache used to avoid
// recomputing daily entities within the same day.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry[V any] struct {
	val      V
	storedAt time.Time
	ttl      time.Duration
}

func (e entry[V]) expired(now time.Time) bool {
	return now.Sub(e.storedAt) >= e.ttl
}

// Cache is a string-keyed TTL cache. Expiry is checked lazily on Get; the
// optional sweeper only reclaims memory, it is not needed for correctness.
type Cache[V any] struct {
	mu   sync.RWMutex
	data map[string]entry[V]
	now  func() time.Time // swappable for tests
}

func New[V any]() *Cache[V] {
	return &Cache[V]{
		data: make(map[string]entry[V]),
		now:  time.Now,
	}
}

// Get returns the cached value and true if present and not expired. Expired
// entries are evicted eagerly.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if e.expired(c.now()) {
		c.mu.Lock()
		// Re-check under the write lock; another Set may have raced in.
		if cur, ok := c.data[key]; ok && cur.expired(c.now()) {
			delete(c.data, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.val, true
}

func (c *Cache[V]) Set(key string, val V, ttl time.Duration) {
	c.mu.Lock()
	c.data[key] = entry[V]{val: val, storedAt: c.now(), ttl: ttl}
	c.mu.Unlock()
}

func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

// InvalidatePrefix drops every entry whose key starts with prefix. Used when
// all of a user's cached entities must be refreshed at once.
func (c *Cache[V]) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	c.mu.Unlock()
}

// Len reports the number of entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// StartSweeper runs a background goroutine that drops expired entries every
// interval until ctx is cancelled.
func (c *Cache[V]) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

func (c *Cache[V]) sweep() {
	now := c.now()
	c.mu.Lock()
	for k, e := range c.data {
		if e.expired(now) {
			delete(c.data, k)
		}
	}
	c.mu.Unlock()
}

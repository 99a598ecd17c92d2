// Package cache provides a small single-value TTL cache with an injected
// clock. It replaces ad hoc process-wide mutable caches: the cache is
// constructed once, passed by reference, and fully testable with a fake
// clock.
package cache

import (
	"sync"
	"time"
)

// Clock returns the current time. Inject time.Now in production and a fixed
// function in tests.
type Clock func() time.Time

// Value caches a single value of type T for a fixed TTL.
type Value[T any] struct {
	mu      sync.RWMutex
	value   T
	ok      bool
	expires time.Time
	ttl     time.Duration
	now     Clock
}

// New creates a cache with the given TTL and clock. A nil clock defaults to
// time.Now.
func New[T any](ttl time.Duration, now Clock) *Value[T] {
	if now == nil {
		now = time.Now
	}
	return &Value[T]{ttl: ttl, now: now}
}

// Get returns the cached value and whether it is present and fresh.
func (c *Value[T]) Get() (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ok || c.now().After(c.expires) {
		var zero T
		return zero, false
	}
	return c.value, true
}

// Set stores a value and resets its expiry.
func (c *Value[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	c.ok = true
	c.expires = c.now().Add(c.ttl)
}

// Invalidate drops the cached value.
func (c *Value[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.ok = false
}

// Package cache provides a simple in-memory TTL cache.
// Entries expire after ttl without a read; an optional hook runs on eviction.
package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// InMemory is a thread-safe in-memory cache with sliding TTL.
type InMemory[T any] struct {
	mu      sync.RWMutex
	items   map[string]entry[T]
	ttl     time.Duration
	clock   clockwork.Clock
	onEvict func(key string, value T)

	done      chan struct{}
	closeOnce sync.Once
}

// Option configures an InMemory cache.
type Option[T any] func(*InMemory[T])

// WithClock replaces the wall clock (tests use a fake clock).
func WithClock[T any](clock clockwork.Clock) Option[T] {
	return func(c *InMemory[T]) { c.clock = clock }
}

// WithOnEvict registers fn to run for every entry removed by Delete,
// expiry or Close. fn runs outside the cache lock.
func WithOnEvict[T any](fn func(key string, value T)) Option[T] {
	return func(c *InMemory[T]) { c.onEvict = fn }
}

// New creates a new in-memory cache with the given TTL.
func New[T any](ttl time.Duration, opts ...Option[T]) *InMemory[T] {
	c := &InMemory[T]{
		items: make(map[string]entry[T]),
		ttl:   ttl,
		clock: clockwork.NewRealClock(),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	// Background cleanup goroutine
	go c.cleanup()
	return c
}

// Touch retrieves a value and restarts its TTL.
func (c *InMemory[T]) Touch(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	e, ok := c.items[key]
	if !ok || now.After(e.expiresAt) {
		var zero T
		return zero, false
	}
	e.expiresAt = now.Add(c.ttl)
	c.items[key] = e
	return e.value, true
}

// Set stores a value in the cache with the configured TTL.
func (c *InMemory[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{
		value:     value,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

// Delete removes a value from the cache.
func (c *InMemory[T]) Delete(key string) {
	c.mu.Lock()
	e, ok := c.items[key]
	delete(c.items, key)
	c.mu.Unlock()

	if ok {
		c.evicted(key, e.value)
	}
}

// Len returns the number of stored entries, expired ones included until
// the next cleanup.
func (c *InMemory[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the cleanup goroutine and evicts every entry.
func (c *InMemory[T]) Close() {
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		items := c.items
		c.items = make(map[string]entry[T])
		c.mu.Unlock()

		for k, e := range items {
			c.evicted(k, e.value)
		}
	})
}

// Purge removes expired entries now.
func (c *InMemory[T]) Purge() int {
	c.mu.Lock()
	now := c.clock.Now()
	expired := make(map[string]T)
	for k, v := range c.items {
		if now.After(v.expiresAt) {
			expired[k] = v.value
			delete(c.items, k)
		}
	}
	c.mu.Unlock()

	for k, v := range expired {
		c.evicted(k, v)
	}
	return len(expired)
}

func (c *InMemory[T]) evicted(key string, value T) {
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}

// cleanup periodically removes expired entries.
func (c *InMemory[T]) cleanup() {
	ticker := c.clock.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.Chan():
			c.Purge()
		}
	}
}

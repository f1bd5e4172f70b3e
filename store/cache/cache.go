// Package cache provides a small in-memory TTL cache used by the store for
// hot lookups.
package cache

import (
	"context"
	"sync"
	"time"
)

// Config holds the cache configuration.
type Config struct {
	// DefaultTTL is the lifetime of an entry written with Set.
	DefaultTTL time.Duration
	// CleanupInterval is how often expired entries are swept.
	CleanupInterval time.Duration
	// MaxItems bounds the cache size; oldest entries are evicted first.
	MaxItems int
	// OnEviction, when set, is called for every evicted or expired entry.
	OnEviction func(key string, value any)
}

type item struct {
	value     any
	expiresAt time.Time
	storedAt  time.Time
}

// Cache is a thread-safe map with per-entry expiry.
type Cache struct {
	config Config

	mu    sync.RWMutex
	items map[string]item

	done chan struct{}
	once sync.Once
}

// New creates a cache and starts its cleanup goroutine.
func New(config Config) *Cache {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 10 * time.Minute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = time.Minute
	}
	c := &Cache{
		config: config,
		items:  make(map[string]item),
		done:   make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

func (c *Cache) Get(_ context.Context, key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(it.expiresAt) {
		return nil, false
	}
	return it.value, true
}

func (c *Cache) Set(_ context.Context, key string, value any) {
	now := time.Now()
	c.mu.Lock()
	if c.config.MaxItems > 0 && len(c.items) >= c.config.MaxItems {
		c.evictOldestLocked()
	}
	c.items[key] = item{
		value:     value,
		expiresAt: now.Add(c.config.DefaultTTL),
		storedAt:  now,
	}
	c.mu.Unlock()
}

func (c *Cache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Close stops the cleanup goroutine. The cache remains usable but no longer
// sweeps expired entries.
func (c *Cache) Close() {
	c.once.Do(func() {
		close(c.done)
	})
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestTs time.Time
	first := true
	for key, it := range c.items {
		if first || it.storedAt.Before(oldestTs) {
			oldestKey, oldestTs = key, it.storedAt
			first = false
		}
	}
	if !first {
		evicted := c.items[oldestKey]
		delete(c.items, oldestKey)
		if c.config.OnEviction != nil {
			c.config.OnEviction(oldestKey, evicted.value)
		}
	}
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, it := range c.items {
				if now.After(it.expiresAt) {
					delete(c.items, key)
					if c.config.OnEviction != nil {
						c.config.OnEviction(key, it.value)
					}
				}
			}
			c.mu.Unlock()
		}
	}
}

// Package cache provides a typed in-memory LRU cache with TTL support and a
// read-through helper that layers it over Redis and a loader function.
//
// Example usage:
//
//	c := NewLRUCache[model.Teacher](1000, 300)
//	defer c.Stop()
//
//	c.Set("alice", teacher)
//	value, exists := c.Get("alice")
package cache

import (
	"time"

	"github.com/duccv/student-service/config"
)

// Cache defines the methods shared by in-memory cache implementations.
type Cache[V any] interface {
	// Get retrieves an item by key and reports whether it was present and unexpired.
	Get(key string) (V, bool)

	// Set adds or replaces a value with the default TTL.
	Set(key string, value V)

	// SetWithTTL adds or replaces a value with a TTL in seconds.
	SetWithTTL(key string, value V, ttlSeconds int)

	// Delete removes a key. Missing keys are ignored.
	Delete(key string)

	// Size returns the number of stored entries, including expired ones not yet swept.
	Size() int

	// MaxSize returns the capacity after which eviction occurs.
	MaxSize() int

	// Clear removes every entry.
	Clear()

	// Stop shuts down the background cleanup goroutine.
	Stop()
}

// CacheData is one stored value with its expiration time.
type CacheData[V any] struct {
	Value   V
	Timeout time.Time
}

// NewCache creates an LRU cache sized and timed from the configuration.
func NewCache[V any](cfg config.CacheConfig) Cache[V] {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 1000
	}
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = 300
	}
	return NewLRUCache[V](capacity, ttl)
}

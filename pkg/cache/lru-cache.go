package cache

import (
	"container/list"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LRUCache implements a Least Recently Used cache with TTL support.
// The least recently accessed entry is evicted once the cache is full,
// and a background goroutine sweeps expired entries.
type LRUCache[V any] struct {
	cacheData  map[string]*list.Element
	list       *list.List
	maxSize    int
	defaultTtl time.Duration
	now        func() time.Time
	mu         sync.Mutex
	stopOnce   sync.Once
	stopChan   chan struct{}
}

type lruItem[V any] struct {
	key  string
	data CacheData[V]
}

// NewLRUCache creates an LRU cache holding at most maxSize entries, each living
// defaultTtlSeconds unless set with an explicit TTL.
func NewLRUCache[V any](maxSize, defaultTtlSeconds int) *LRUCache[V] {
	cache := &LRUCache[V]{
		cacheData:  make(map[string]*list.Element),
		list:       list.New(),
		maxSize:    maxSize,
		defaultTtl: time.Duration(defaultTtlSeconds) * time.Second,
		now:        time.Now,
		stopChan:   make(chan struct{}),
	}

	go cache.cleanupExpiredKeys(3 * time.Second)

	return cache
}

func (c *LRUCache[V]) cleanupExpiredKeys(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := c.sweep(); n > 0 {
				zap.L().Debug("Cleaned up expired LRU cache entries", zap.Int("count", n))
			}
		case <-c.stopChan:
			return
		}
	}
}

// sweep removes every expired entry and returns how many were dropped.
func (c *LRUCache[V]) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expired := 0
	for e := c.list.Front(); e != nil; {
		next := e.Next()
		item := e.Value.(*lruItem[V])
		if now.After(item.data.Timeout) {
			c.list.Remove(e)
			delete(c.cacheData, item.key)
			expired++
		}
		e = next
	}
	return expired
}

// Stop shuts down the cleanup goroutine. It is safe to call more than once.
func (c *LRUCache[V]) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *LRUCache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, int(c.defaultTtl.Seconds()))
}

func (c *LRUCache[V]) SetWithTTL(key string, value V, ttlSeconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	timeout := c.now().Add(time.Duration(ttlSeconds) * time.Second)

	if element, exists := c.cacheData[key]; exists {
		item := element.Value.(*lruItem[V])
		item.data.Value = value
		item.data.Timeout = timeout
		c.list.MoveToBack(element)
		return
	}

	if c.maxSize > 0 && c.list.Len() >= c.maxSize {
		if oldest := c.list.Front(); oldest != nil {
			oldestItem := oldest.Value.(*lruItem[V])
			c.list.Remove(oldest)
			delete(c.cacheData, oldestItem.key)
			zap.L().Debug("LRU cache evicted least recently used item", zap.String("key", oldestItem.key))
		}
	}

	element := c.list.PushBack(&lruItem[V]{
		key:  key,
		data: CacheData[V]{Value: value, Timeout: timeout},
	})
	c.cacheData[key] = element
}

// Get moves a hit to the most recently used position. Expired entries are
// removed and reported as misses.
func (c *LRUCache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	element, exists := c.cacheData[key]
	if !exists {
		return zero, false
	}

	item := element.Value.(*lruItem[V])
	if c.now().After(item.data.Timeout) {
		c.list.Remove(element)
		delete(c.cacheData, key)
		return zero, false
	}

	c.list.MoveToBack(element)
	return item.data.Value, true
}

func (c *LRUCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.cacheData[key]; exists {
		c.list.Remove(element)
		delete(c.cacheData, key)
	}
}

func (c *LRUCache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Len()
}

func (c *LRUCache[V]) MaxSize() int {
	return c.maxSize
}

func (c *LRUCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.list.Init()
	c.cacheData = make(map[string]*list.Element)
}

// Keys returns the unexpired keys, least recently used first.
func (c *LRUCache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.list.Len())
	now := c.now()
	for e := c.list.Front(); e != nil; e = e.Next() {
		item := e.Value.(*lruItem[V])
		if now.After(item.data.Timeout) {
			continue
		}
		keys = append(keys, item.key)
	}
	return keys
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Loader fetches the authoritative value for a key on a cache miss.
type Loader[V any] func(ctx context.Context, key string) (V, error)

// MultiLevel reads through an in-memory cache, then Redis (when configured),
// then the Loader. Hits from a lower level are written back to the upper ones.
// Concurrent misses on the same key share one Loader call.
//
// Loader errors are returned as-is and never cached.
type MultiLevel[V any] struct {
	mem          Cache[V]
	redis        redis.UniversalClient
	prefix       string
	memTTL       int
	redisTTL     time.Duration
	redisTimeout time.Duration
	group        singleflight.Group
}

// NewMultiLevel builds a read-through cache. redisClient may be nil.
func NewMultiLevel[V any](
	mem Cache[V],
	redisClient redis.UniversalClient,
	prefix string,
	ttlSeconds int,
) *MultiLevel[V] {
	if ttlSeconds <= 0 {
		ttlSeconds = 300
	}
	return &MultiLevel[V]{
		mem:          mem,
		redis:        redisClient,
		prefix:       prefix,
		memTTL:       ttlSeconds,
		redisTTL:     time.Duration(ttlSeconds) * time.Second,
		redisTimeout: 50 * time.Millisecond,
	}
}

// Get returns the cached value for key or loads it.
func (m *MultiLevel[V]) Get(ctx context.Context, key string, load Loader[V]) (V, error) {
	if val, ok := m.mem.Get(key); ok {
		return val, nil
	}

	result, err, _ := m.group.Do(key, func() (any, error) {
		if val, ok := m.mem.Get(key); ok {
			return val, nil
		}

		if val, ok := m.fromRedis(ctx, key); ok {
			m.mem.SetWithTTL(key, val, m.memTTL)
			return val, nil
		}

		val, err := load(ctx, key)
		if err != nil {
			return nil, err
		}
		m.mem.SetWithTTL(key, val, m.memTTL)
		m.toRedis(ctx, key, val)
		return val, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return result.(V), nil
}

// Forget drops key from every level.
func (m *MultiLevel[V]) Forget(ctx context.Context, key string) {
	m.mem.Delete(key)
	if m.redis == nil {
		return
	}
	if err := m.redis.Del(ctx, m.prefix+key).Err(); err != nil {
		zap.L().Warn("Redis cache delete failed", zap.String("key", key), zap.Error(err))
	}
}

func (m *MultiLevel[V]) fromRedis(ctx context.Context, key string) (V, bool) {
	var val V
	if m.redis == nil {
		return val, false
	}

	redisCtx, cancel := context.WithTimeout(ctx, m.redisTimeout)
	defer cancel()

	raw, err := m.redis.Get(redisCtx, m.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("Redis cache read failed", zap.String("key", key), zap.Error(err))
		}
		return val, false
	}
	if err := json.Unmarshal(raw, &val); err != nil {
		zap.L().Warn("Redis cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return val, false
	}
	return val, true
}

func (m *MultiLevel[V]) toRedis(ctx context.Context, key string, val V) {
	if m.redis == nil {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}

	redisCtx, cancel := context.WithTimeout(ctx, m.redisTimeout)
	defer cancel()
	if err := m.redis.Set(redisCtx, m.prefix+key, data, m.redisTTL).Err(); err != nil {
		zap.L().Warn("Redis cache write failed", zap.String("key", key), zap.Error(err))
	}
}

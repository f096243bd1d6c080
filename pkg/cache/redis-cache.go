package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/duccv/student-service/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to a standalone server (NORMAL) or through sentinels
// (SENTINEL, space separated addresses) and verifies the connection.
func NewRedisClient(cfg config.RedisConfig) (redis.UniversalClient, error) {
	var client redis.UniversalClient

	switch strings.ToUpper(cfg.Type) {
	case "", "NORMAL":
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addrs,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	case "SENTINEL":
		client = redis.NewFailoverClient(&redis.FailoverOptions{
			SentinelAddrs: strings.Fields(cfg.Addrs),
			MasterName:    cfg.MasterName,
			Password:      cfg.Password,
			DB:            cfg.DB,
			ReadTimeout:   100 * time.Millisecond,
		})
	default:
		return nil, fmt.Errorf("invalid redis type %q, must be NORMAL or SENTINEL", cfg.Type)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	zap.L().Info("Connected to Redis", zap.String("type", cfg.Type), zap.String("addrs", cfg.Addrs))
	return client, nil
}

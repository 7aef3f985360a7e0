package cache

import (
	"ReferralHub/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// redisCache stores entries in Redis under a fixed key prefix.
type redisCache struct {
	client *redis.Client
	prefix string
	log    zerolog.Logger
}

var _ ports.Cache = (*redisCache)(nil)

// NewRedisCache connects and pings Redis. The returned close func releases
// the client.
func NewRedisCache(ctx context.Context, addr, password string, db int, baseLogger *zerolog.Logger) (ports.Cache, func() error, error) {
	log := baseLogger.With().Str("component", "redis_cache").Logger()

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		log.Error().Err(err).Str("addr", addr).Msg("Failed to ping redis")
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info().Str("addr", addr).Int("db", db).Msg("Redis cache connected")
	return &redisCache{client: client, prefix: "referralhub:", log: log}, client.Close, nil
}

func (c *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ports.ErrCacheMiss
	}
	return v, err
}

func (c *redisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

package providers

import (
	"clanwatch/internal/structures"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "clanwatch:"

// RedisCacheProvider keeps cached upstream documents in redis so they
// survive process restarts and can be shared between instances.
type RedisCacheProvider struct {
	client *redis.Client
	logger Logger
}

func NewRedisCacheProvider(conf *structures.Config, logger Logger) (*RedisCacheProvider, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Cache.Redis.Addr,
		Password: conf.Cache.Redis.Password,
		DB:       conf.Cache.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Infof(TypeApp, "Redis cache initialized: %s db=%d, TTL=%ds", conf.Cache.Redis.Addr, conf.Cache.Redis.DB, conf.Cache.TTL)

	return &RedisCacheProvider{
		client: client,
		logger: logger,
	}, nil
}

func (c *RedisCacheProvider) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnf(TypeApp, "redis get %s: %s", key, err)
		}
		return nil, false
	}
	return data, true
}

func (c *RedisCacheProvider) Set(ctx context.Context, key string, value []byte, ttl int) {
	err := c.client.Set(ctx, redisKeyPrefix+key, value, time.Duration(ttl)*time.Second).Err()
	if err != nil {
		c.logger.Warnf(TypeApp, "redis set %s: %s", key, err)
	}
}

func (c *RedisCacheProvider) Close() error {
	return c.client.Close()
}

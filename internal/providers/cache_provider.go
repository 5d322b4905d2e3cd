package providers

import (
	"clanwatch/internal/structures"
	"context"
	"fmt"
	"unsafe"

	"github.com/coocood/freecache"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// CacheProviderInterface stores opaque payloads under string keys.
// TTL is given per write in seconds.
type CacheProviderInterface interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl int)
	Close() error
}

type CacheProvider struct {
	cache *freecache.Cache
}

func NewCacheProvider(conf *structures.Config, logger Logger) (CacheProviderInterface, error) {
	if !conf.Cache.Enabled {
		logger.Infof(TypeApp, "Cache disabled")
		return &noopCache{}, nil
	}

	switch conf.Cache.Backend {
	case CacheBackendRedis:
		return NewRedisCacheProvider(conf, logger)
	case CacheBackendMemory, "":
		if conf.Cache.Size <= 0 {
			logger.Infof(TypeApp, "Cache disabled: zero size")
			return &noopCache{}, nil
		}
		logger.Infof(TypeApp, "Memory cache initialized: %dMB, TTL=%ds", conf.Cache.Size, conf.Cache.TTL)
		return &CacheProvider{
			cache: freecache.NewCache(conf.Cache.Size * 1024 * 1024),
		}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", conf.Cache.Backend)
	}
}

// unsafeStringToBytes converts string to []byte without allocation.
// freecache copies keys, so the result is never modified.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (c *CacheProvider) Get(_ context.Context, key string) ([]byte, bool) {
	val, err := c.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *CacheProvider) Set(_ context.Context, key string, value []byte, ttl int) {
	_ = c.cache.Set(unsafeStringToBytes(key), value, ttl)
}

func (c *CacheProvider) Close() error {
	c.cache.Clear()
	return nil
}

type noopCache struct{}

func (n *noopCache) Get(_ context.Context, _ string) ([]byte, bool)   { return nil, false }
func (n *noopCache) Set(_ context.Context, _ string, _ []byte, _ int) {}
func (n *noopCache) Close() error                                     { return nil }

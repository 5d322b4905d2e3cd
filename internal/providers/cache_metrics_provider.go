package providers

import (
	"clanwatch/internal/structures"
	"context"
)

// MetricsCacheProvider wraps a CacheProviderInterface and increments
// hit/miss counters on every Get call.
type MetricsCacheProvider struct {
	inner   CacheProviderInterface
	metrics MetricsProviderInterface
}

func (c *MetricsCacheProvider) Get(ctx context.Context, key string) ([]byte, bool) {
	val, ok := c.inner.Get(ctx, key)
	if ok {
		c.metrics.IncCacheHits()
	} else {
		c.metrics.IncCacheMisses()
	}
	return val, ok
}

func (c *MetricsCacheProvider) Set(ctx context.Context, key string, value []byte, ttl int) {
	c.inner.Set(ctx, key, value, ttl)
}

func (c *MetricsCacheProvider) Close() error {
	return c.inner.Close()
}

// NewInstrumentedCacheProvider creates the configured cache backend, optionally
// compressing values, wrapped with metrics instrumentation.
// When cache is disabled, returns the plain noopCache without metrics wrapping
// to avoid counting phantom cache misses.
func NewInstrumentedCacheProvider(conf *structures.Config, logger Logger, metrics MetricsProviderInterface, compressor CompressorInterface) (CacheProviderInterface, error) {
	inner, err := NewCacheProvider(conf, logger)
	if err != nil {
		return nil, err
	}
	if _, ok := inner.(*noopCache); ok {
		return inner, nil
	}
	if conf.Cache.Compress {
		inner = &CompressedCacheProvider{
			inner:      inner,
			compressor: compressor,
			logger:     logger,
		}
	}
	return &MetricsCacheProvider{
		inner:   inner,
		metrics: metrics,
	}, nil
}

package providers

import "context"

// CompressedCacheProvider stores values zstd-compressed. War logs and
// clan member lists are large and repetitive, so this keeps redis memory low.
type CompressedCacheProvider struct {
	inner      CacheProviderInterface
	compressor CompressorInterface
	logger     Logger
}

func (c *CompressedCacheProvider) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, ok := c.inner.Get(ctx, key)
	if !ok {
		return nil, false
	}
	val, err := c.compressor.Decompress(raw)
	if err != nil {
		c.logger.Warnf(TypeApp, "dropping undecodable cache entry %s: %s", key, err)
		return nil, false
	}
	return val, true
}

func (c *CompressedCacheProvider) Set(ctx context.Context, key string, value []byte, ttl int) {
	packed, err := c.compressor.Compress(value)
	if err != nil {
		c.logger.Warnf(TypeApp, "compress cache entry %s: %s", key, err)
		return
	}
	c.inner.Set(ctx, key, packed, ttl)
}

func (c *CompressedCacheProvider) Close() error {
	return c.inner.Close()
}

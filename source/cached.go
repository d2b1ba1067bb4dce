package source

import (
	"context"
	"time"

	"github.com/linkback/linkback"
)

// Cached wraps a record source with a collection cache, so that repeated
// full-collection scans (the cost center of inverse searches across many
// distinct instances) hit the source once per type within the TTL.
type Cached struct {
	src   linkback.Source
	cache linkback.Cache
	ttl   time.Duration
}

// NewCached wraps src with the given cache. A zero ttl caches without
// expiry.
func NewCached(src linkback.Source, cache linkback.Cache, ttl time.Duration) *Cached {
	return &Cached{src: src, cache: cache, ttl: ttl}
}

// All implements linkback.Source.
func (c *Cached) All(ctx context.Context, typeName string) ([]linkback.Instance, error) {
	key := "all:" + typeName
	if values, ok := c.cache.Get(ctx, key); ok {
		return values, nil
	}
	values, err := c.src.All(ctx, typeName)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, key, values, c.ttl)
	return values, nil
}

// Invalidate drops the cached collection of a type.
func (c *Cached) Invalidate(ctx context.Context, typeName string) {
	c.cache.Invalidate(ctx, "all:"+typeName)
}

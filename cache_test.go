package linkback_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkback/linkback"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("SetGet", func(t *testing.T) {
		c := linkback.NewMemoryCache()
		p := newPost("p1", "c1", "first")
		c.Set(ctx, "all:Post", []linkback.Instance{p}, 0)

		got, ok := c.Get(ctx, "all:Post")
		require.True(t, ok)
		require.Len(t, got, 1)
		assert.Same(t, p, got[0])
	})

	t.Run("Miss", func(t *testing.T) {
		c := linkback.NewMemoryCache()
		_, ok := c.Get(ctx, "all:Post")
		assert.False(t, ok)
	})

	t.Run("Expiry", func(t *testing.T) {
		c := linkback.NewMemoryCache()
		c.Set(ctx, "all:Post", []linkback.Instance{newPost("p1", "c1", "first")}, time.Millisecond)
		time.Sleep(5 * time.Millisecond)
		_, ok := c.Get(ctx, "all:Post")
		assert.False(t, ok)
	})

	t.Run("ZeroTTLNeverExpires", func(t *testing.T) {
		c := linkback.NewMemoryCache()
		c.Set(ctx, "all:Post", nil, 0)
		time.Sleep(2 * time.Millisecond)
		_, ok := c.Get(ctx, "all:Post")
		assert.True(t, ok)
	})

	t.Run("Invalidate", func(t *testing.T) {
		c := linkback.NewMemoryCache()
		c.Set(ctx, "all:Post", nil, 0)
		c.Set(ctx, "all:Tag", nil, 0)
		c.Invalidate(ctx, "all:Post")

		_, ok := c.Get(ctx, "all:Post")
		assert.False(t, ok)
		_, ok = c.Get(ctx, "all:Tag")
		assert.True(t, ok)
	})

	t.Run("Clear", func(t *testing.T) {
		c := linkback.NewMemoryCache()
		c.Set(ctx, "all:Post", nil, 0)
		c.Set(ctx, "all:Tag", nil, 0)
		c.Clear(ctx)

		_, ok := c.Get(ctx, "all:Post")
		assert.False(t, ok)
		_, ok = c.Get(ctx, "all:Tag")
		assert.False(t, ok)
	})
}

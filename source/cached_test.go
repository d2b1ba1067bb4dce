package source_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkback/linkback"
	"github.com/linkback/linkback/source"
)

// flakySource counts calls and fails until healed.
type flakySource struct {
	inner *source.Memory
	calls int
	err   error
}

func (s *flakySource) All(ctx context.Context, typeName string) ([]linkback.Instance, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.inner.All(ctx, typeName)
}

func TestCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("HitsSourceOnce", func(t *testing.T) {
		mem := source.NewMemory()
		mem.Add("Doc", newDoc("d1", "first"))
		src := &flakySource{inner: mem}
		c := source.NewCached(src, linkback.NewMemoryCache(), time.Minute)

		for i := 0; i < 3; i++ {
			got, err := c.All(ctx, "Doc")
			require.NoError(t, err)
			assert.Len(t, got, 1)
		}
		assert.Equal(t, 1, src.calls)
	})

	t.Run("PerTypeKeys", func(t *testing.T) {
		mem := source.NewMemory()
		mem.Add("Doc", newDoc("d1", "first"))
		src := &flakySource{inner: mem}
		c := source.NewCached(src, linkback.NewMemoryCache(), 0)

		_, err := c.All(ctx, "Doc")
		require.NoError(t, err)
		_, err = c.All(ctx, "Other")
		require.NoError(t, err)
		assert.Equal(t, 2, src.calls)
	})

	t.Run("InvalidateForcesRefetch", func(t *testing.T) {
		mem := source.NewMemory()
		mem.Add("Doc", newDoc("d1", "first"))
		src := &flakySource{inner: mem}
		c := source.NewCached(src, linkback.NewMemoryCache(), 0)

		_, err := c.All(ctx, "Doc")
		require.NoError(t, err)
		mem.Add("Doc", newDoc("d2", "second"))
		c.Invalidate(ctx, "Doc")

		got, err := c.All(ctx, "Doc")
		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, 2, src.calls)
	})

	t.Run("ErrorsAreNotCached", func(t *testing.T) {
		mem := source.NewMemory()
		mem.Add("Doc", newDoc("d1", "first"))
		src := &flakySource{inner: mem, err: errors.New("down")}
		c := source.NewCached(src, linkback.NewMemoryCache(), 0)

		_, err := c.All(ctx, "Doc")
		require.Error(t, err)

		src.err = nil
		got, err := c.All(ctx, "Doc")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

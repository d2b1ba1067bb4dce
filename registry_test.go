package linkback_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkback/linkback"
	"github.com/linkback/linkback/schema/rel"
)

func TestRegister(t *testing.T) {
	t.Parallel()
	t.Run("DerivedKeys", func(t *testing.T) {
		reg := linkback.NewRegistry()
		tests := []struct {
			typeName string
			singular string
			plural   string
		}{
			{"Category", "category", "categories"},
			{"Post", "post", "posts"},
			{"OrderItem", "order_item", "order_items"},
		}
		for _, tt := range tests {
			typ, err := reg.Register(tt.typeName)
			require.NoError(t, err)
			assert.Equal(t, tt.singular, typ.Singular)
			assert.Equal(t, tt.plural, typ.Plural)
		}
	})

	t.Run("RelationsInDeclarationOrder", func(t *testing.T) {
		reg := linkback.NewRegistry()
		typ, err := reg.Register("Post",
			rel.BelongsTo("category").Descriptor(),
			rel.HasMany("comments").Descriptor(),
			rel.HasOne("hero_image").Target("Image").Descriptor(),
		)
		require.NoError(t, err)
		rels := typ.Relations()
		require.Len(t, rels, 3)
		assert.Equal(t, "category", rels[0].Name)
		assert.Equal(t, "comments", rels[1].Name)
		assert.Equal(t, "hero_image", rels[2].Name)
	})

	t.Run("FailFastOnBuilderError", func(t *testing.T) {
		reg := linkback.NewRegistry()
		_, err := reg.Register("Post", rel.BelongsTo("category.name").Descriptor())
		require.Error(t, err)
		assert.True(t, linkback.IsConfiguration(err))
		assert.Contains(t, err.Error(), "not an atomic symbolic key")
	})

	t.Run("DuplicateRelation", func(t *testing.T) {
		reg := linkback.NewRegistry()
		_, err := reg.Register("Post",
			rel.HasMany("comments").Descriptor(),
			rel.HasMany("comments").Descriptor(),
		)
		require.Error(t, err)
		assert.True(t, linkback.IsConfiguration(err))
	})

	t.Run("DuplicateType", func(t *testing.T) {
		reg := linkback.NewRegistry()
		_, err := reg.Register("Post")
		require.NoError(t, err)
		_, err = reg.Register("Post")
		assert.True(t, linkback.IsConfiguration(err))
	})

	t.Run("NilDescriptor", func(t *testing.T) {
		reg := linkback.NewRegistry()
		_, err := reg.Register("Post", nil)
		assert.True(t, linkback.IsConfiguration(err))
	})

	t.Run("EmptyName", func(t *testing.T) {
		reg := linkback.NewRegistry()
		_, err := reg.Register("")
		assert.True(t, linkback.IsConfiguration(err))
	})

	t.Run("MustRegisterPanics", func(t *testing.T) {
		reg := linkback.NewRegistry()
		assert.Panics(t, func() {
			reg.MustRegister("Post", rel.BelongsTo("a.b").Descriptor())
		})
	})
}

func TestRegistryLookups(t *testing.T) {
	t.Parallel()
	reg := linkback.NewRegistry()
	reg.MustRegister("Category", rel.HasMany("posts").Descriptor())
	reg.MustRegister("Post", rel.BelongsTo("category").Descriptor())

	t.Run("Type", func(t *testing.T) {
		typ, ok := reg.Type("Category")
		require.True(t, ok)
		assert.Equal(t, "Category", typ.Name)
		_, ok = reg.Type("category")
		assert.False(t, ok)
	})

	t.Run("TypeByKey", func(t *testing.T) {
		// Exact singular and plural keys hit, anything else misses.
		for _, key := range []string{"category", "categories"} {
			typ, ok := reg.TypeByKey(key)
			require.True(t, ok, key)
			assert.Equal(t, "Category", typ.Name)
		}
		_, ok := reg.TypeByKey("Category")
		assert.False(t, ok)
		_, ok = reg.TypeByKey("categorys")
		assert.False(t, ok)
	})

	t.Run("TypesSorted", func(t *testing.T) {
		types := reg.Types()
		require.Len(t, types, 2)
		assert.Equal(t, "Category", types[0].Name)
		assert.Equal(t, "Post", types[1].Name)
	})

	t.Run("Declares", func(t *testing.T) {
		typ, _ := reg.Type("Post")
		assert.True(t, typ.Declares("category"))
		assert.True(t, typ.Declares("category", rel.KindBelongsTo))
		assert.False(t, typ.Declares("category", rel.KindHasMany))
		assert.False(t, typ.Declares("author"))
	})
}

func TestBindAccessors(t *testing.T) {
	t.Parallel()
	newReg := func(t *testing.T) *linkback.Registry {
		reg := linkback.NewRegistry()
		reg.MustRegister("Category",
			rel.HasMany("posts").Descriptor(),
			rel.HasOne("featured_post").Target("Post").Descriptor(),
		)
		return reg
	}

	t.Run("BindCollection", func(t *testing.T) {
		reg := newReg(t)
		err := reg.BindCollection("Category", "posts", func(ctx context.Context, parent linkback.Instance) ([]linkback.Instance, error) {
			return nil, nil
		})
		require.NoError(t, err)
		typ, _ := reg.Type("Category")
		_, ok := typ.Collection("posts")
		assert.True(t, ok)
	})

	t.Run("BindSingle", func(t *testing.T) {
		reg := newReg(t)
		err := reg.BindSingle("Category", "featured_post", func(ctx context.Context, parent linkback.Instance) (linkback.Instance, error) {
			return nil, nil
		})
		require.NoError(t, err)
		typ, _ := reg.Type("Category")
		_, ok := typ.Single("featured_post")
		assert.True(t, ok)
	})

	t.Run("BindUnknownType", func(t *testing.T) {
		reg := newReg(t)
		err := reg.BindCollection("Widget", "posts", nil)
		assert.True(t, linkback.IsNotRegistered(err))
	})

	t.Run("BindKindMismatch", func(t *testing.T) {
		reg := newReg(t)
		err := reg.BindCollection("Category", "featured_post", nil)
		assert.True(t, linkback.IsConfiguration(err))
		err = reg.BindSingle("Category", "posts", nil)
		assert.True(t, linkback.IsConfiguration(err))
	})
}

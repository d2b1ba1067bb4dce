package rel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkback/linkback/schema/rel"
)

func TestBuilders(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		build func() *rel.Descriptor
		check func(t *testing.T, d *rel.Descriptor)
	}{
		{
			name: "HasMany",
			build: func() *rel.Descriptor {
				return rel.HasMany("posts").Descriptor()
			},
			check: func(t *testing.T, d *rel.Descriptor) {
				require.NoError(t, d.Err)
				assert.Equal(t, rel.KindHasMany, d.Kind)
				assert.Equal(t, "posts", d.Name)
				assert.Empty(t, d.Target)
			},
		},
		{
			name: "HasOne",
			build: func() *rel.Descriptor {
				return rel.HasOne("profile").Target("Profile").Descriptor()
			},
			check: func(t *testing.T, d *rel.Descriptor) {
				require.NoError(t, d.Err)
				assert.Equal(t, rel.KindHasOne, d.Kind)
				assert.Equal(t, "profile", d.Name)
				assert.Equal(t, "Profile", d.Target)
			},
		},
		{
			name: "BelongsTo",
			build: func() *rel.Descriptor {
				return rel.BelongsTo("category").Descriptor()
			},
			check: func(t *testing.T, d *rel.Descriptor) {
				require.NoError(t, d.Err)
				assert.Equal(t, rel.KindBelongsTo, d.Kind)
				assert.Equal(t, "category", d.Name)
			},
		},
		{
			name: "BelongsToWithUnderscores",
			build: func() *rel.Descriptor {
				return rel.BelongsTo("parent_category").Descriptor()
			},
			check: func(t *testing.T, d *rel.Descriptor) {
				require.NoError(t, d.Err)
			},
		},
		{
			name: "BelongsToCompoundExpression",
			build: func() *rel.Descriptor {
				return rel.BelongsTo("category.name").Descriptor()
			},
			check: func(t *testing.T, d *rel.Descriptor) {
				require.Error(t, d.Err)
				assert.Contains(t, d.Err.Error(), "not an atomic symbolic key")
			},
		},
		{
			name: "BelongsToUppercase",
			build: func() *rel.Descriptor {
				return rel.BelongsTo("Category").Descriptor()
			},
			check: func(t *testing.T, d *rel.Descriptor) {
				require.Error(t, d.Err)
			},
		},
		{
			name: "BelongsToMany",
			build: func() *rel.Descriptor {
				return rel.BelongsToMany("posts").Comment("posts tagged with this tag").Descriptor()
			},
			check: func(t *testing.T, d *rel.Descriptor) {
				require.NoError(t, d.Err)
				assert.Equal(t, rel.KindBelongsToMany, d.Kind)
				assert.Equal(t, "posts tagged with this tag", d.Comment)
			},
		},
		{
			name: "EmptyName",
			build: func() *rel.Descriptor {
				return rel.HasMany("").Descriptor()
			},
			check: func(t *testing.T, d *rel.Descriptor) {
				require.Error(t, d.Err)
				assert.Contains(t, d.Err.Error(), "empty name")
			},
		},
		{
			name: "Options",
			build: func() *rel.Descriptor {
				return rel.HasMany("comments").
					Option("foreign_key", "post_id").
					Option("ordered", true).
					StructTag(`json:"comments"`).
					Descriptor()
			},
			check: func(t *testing.T, d *rel.Descriptor) {
				require.NoError(t, d.Err)
				assert.Equal(t, "post_id", d.Options["foreign_key"])
				assert.Equal(t, true, d.Options["ordered"])
				assert.Equal(t, `json:"comments"`, d.Tag)
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.check(t, tt.build())
		})
	}
}

func TestKind(t *testing.T) {
	t.Parallel()
	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "has_many", rel.KindHasMany.String())
		assert.Equal(t, "has_one", rel.KindHasOne.String())
		assert.Equal(t, "belongs_to", rel.KindBelongsTo.String())
		assert.Equal(t, "belongs_to_many", rel.KindBelongsToMany.String())
		assert.Equal(t, "invalid", rel.KindInvalid.String())
	})

	t.Run("ParseKind", func(t *testing.T) {
		for _, k := range []rel.Kind{rel.KindHasMany, rel.KindHasOne, rel.KindBelongsTo, rel.KindBelongsToMany} {
			parsed, err := rel.ParseKind(k.String())
			require.NoError(t, err)
			assert.Equal(t, k, parsed)
		}
		_, err := rel.ParseKind("hasMany")
		assert.Error(t, err)
	})

	t.Run("TextRoundTrip", func(t *testing.T) {
		buf, err := rel.KindBelongsToMany.MarshalText()
		require.NoError(t, err)
		var k rel.Kind
		require.NoError(t, k.UnmarshalText(buf))
		assert.Equal(t, rel.KindBelongsToMany, k)

		_, err = rel.KindInvalid.MarshalText()
		assert.Error(t, err)
	})
}

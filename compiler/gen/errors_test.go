package gen

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	t.Run("Error", func(t *testing.T) {
		err := NewConfigError("Workers", 0, "workers must be at least 1")
		assert.Equal(t, `gen: config error for "Workers" (value: 0): workers must be at least 1`, err.Error())
	})

	t.Run("ErrorWithoutValue", func(t *testing.T) {
		err := NewConfigError("Package", nil, "package is required")
		assert.Equal(t, `gen: config error for "Package": package is required`, err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := NewConfigError("OutDir", nil, "output directory is required")
		assert.True(t, errors.Is(err, ErrMissingConfig))
		assert.True(t, IsConfigError(err))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	t.Parallel()
	t.Run("Error", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := NewGenerationError("Post", "post_rels.go", "writing file", cause)
		assert.Equal(t, "gen: generation error for schema Post (file: post_rels.go): writing file: permission denied", err.Error())
		assert.Equal(t, cause, errors.Unwrap(err))
	})

	t.Run("PartialFields", func(t *testing.T) {
		err := NewGenerationError("", "", "schema with empty name", nil)
		assert.Equal(t, "gen: generation error: schema with empty name", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := NewGenerationError("Post", "", "boom", nil)
		assert.True(t, errors.Is(err, ErrGenerationFailed))
		assert.True(t, IsGenerationError(err))
		assert.False(t, IsGenerationError(errors.New("other")))
	})
}

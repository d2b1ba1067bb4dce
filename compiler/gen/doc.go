// Package gen generates typed relationship accessors from loaded model
// declarations.
//
// The generation pipeline follows this flow:
//
//	Declarations (schema/rel builders)
//	        ↓
//	   Registry (registered types)
//	        ↓
//	   load.Schema (serialized form)
//	        ↓
//	   Generator (one accessor file per schema)
//
// For every declared relationship the generator emits a method on the
// model type that delegates to the matching Resolver operation and
// asserts the concrete element type:
//
//   - has_many:        func (c *Category) Posts(ctx, r) ([]*Post, error)
//   - has_one:         func (c *Category) FeaturedPost(ctx, r) (*Post, error)
//   - belongs_to:      Category(r) (*Category, error) and SetCategory(r, v) error
//   - belongs_to_many: func (t *Tag) Posts(ctx, r) ([]*Post, error)
//
// Configuration is done via the functional options pattern:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithPackage("model"),
//	    gen.WithOutDir("./model"),
//	    gen.WithWorkers(4),
//	)
//
// Code generation uses the Jennifer library instead of templates for:
//
//   - Auto-tracking imports (no goimports needed)
//   - Streaming writes to disk (lower memory)
//   - Parallel generation with configurable workers
//
// Failures surface as structured errors: ConfigError for invalid
// options, GenerationError for per-schema emission failures.
package gen

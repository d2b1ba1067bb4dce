// Package rel provides fluent builders for declaring model relationships.
//
// Relationships are declared on a model type at registration time and
// describe how instances of that type navigate to related instances, even
// though the underlying record source only stores one-directional links.
//
// # Relationship Kinds
//
// There are four sibling kinds:
//
//	// One-to-Many: Category has many Posts
//	rel.HasMany("posts")
//
//	// One-to-One: User has one Profile
//	rel.HasOne("profile")
//
//	// Many-to-One: Post belongs to Category
//	rel.BelongsTo("category")
//
//	// Many-to-Many inverse: Tag discovers its Posts by inverse search
//	rel.BelongsToMany("posts")
//
// # Association Keys
//
// The name passed to a builder is the association key: plural for HasMany
// and BelongsToMany, singular for HasOne and BelongsTo. The target type is
// derived from the key at registration time ("posts" -> "Post"), or set
// explicitly:
//
//	rel.HasMany("entries").Target("Post")
//
// # BelongsTo Keys
//
// BelongsTo requires an atomic symbolic key. A derived or compound
// expression such as "category.name" fails with a ConfigurationError when
// the declaring type is registered:
//
//	rel.BelongsTo("category")       // ok
//	rel.BelongsTo("category.name")  // registration fails
//
// # Options
//
// Builders accept an open options bag whose semantics are reserved for
// collaborators (for example, a primitive accessor reading a custom
// foreign-key field):
//
//	rel.HasMany("posts").Option("foreign_key", "category_sys_id")
package rel

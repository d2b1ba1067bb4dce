package rel

import (
	"fmt"
	"regexp"
)

// Kind is the cardinality and direction of a declared relationship.
type Kind int

// Relationship kinds.
const (
	KindInvalid       Kind = iota
	KindHasMany            // parent -> children, collection
	KindHasOne             // parent -> child, single
	KindBelongsTo          // child -> parent, stored back-reference
	KindBelongsToMany      // child -> parents, inverse search
)

// String returns the declaration-format name of the kind.
func (k Kind) String() string {
	switch k {
	case KindHasMany:
		return "has_many"
	case KindHasOne:
		return "has_one"
	case KindBelongsTo:
		return "belongs_to"
	case KindBelongsToMany:
		return "belongs_to_many"
	}
	return "invalid"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k == KindInvalid {
		return nil, fmt.Errorf("rel: invalid kind")
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses a declaration-format kind name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "has_many":
		return KindHasMany, nil
	case "has_one":
		return KindHasOne, nil
	case "belongs_to":
		return KindBelongsTo, nil
	case "belongs_to_many":
		return KindBelongsToMany, nil
	}
	return KindInvalid, fmt.Errorf("rel: unknown kind %q", s)
}

// Descriptor holds the immutable configuration of a declared relationship.
// Descriptors are produced by the HasMany, HasOne, BelongsTo and
// BelongsToMany builders and consumed at model-registration time.
type Descriptor struct {
	Kind    Kind           // relationship kind
	Name    string         // association key (plural or singular, per kind)
	Target  string         // explicit target type name; derived from Name if empty
	Comment string         // documentation comment
	Tag     string         // struct tag for generated accessors
	Options map[string]any // open options bag, semantics reserved for collaborators
	Err     error          // builder error, surfaced at registration
}

// atomicKeyRe matches an atomic symbolic association key: a bare
// lower-case identifier with no separators beyond underscores.
var atomicKeyRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Builder is the fluent builder shared by the four relationship kinds.
type Builder struct {
	desc *Descriptor
}

// HasMany declares a one-to-many relationship on a parent type. The name
// is the plural association key of the child type (e.g. "posts").
func HasMany(name string) *Builder {
	return newBuilder(KindHasMany, name)
}

// HasOne declares a one-to-one relationship on a parent type. The name
// is the singular association key of the child type (e.g. "profile").
func HasOne(name string) *Builder {
	return newBuilder(KindHasOne, name)
}

// BelongsTo declares a many-to-one relationship on a child type. The name
// must be an atomic symbolic key naming the parent type's singular
// association key (e.g. "category"); a derived or compound expression is
// rejected with a ConfigurationError at registration time.
func BelongsTo(name string) *Builder {
	b := newBuilder(KindBelongsTo, name)
	if b.desc.Err == nil && !atomicKeyRe.MatchString(name) {
		b.desc.Err = fmt.Errorf("rel: belongs_to target %q is not an atomic symbolic key", name)
	}
	return b
}

// BelongsToMany declares a many-to-many inverse relationship on a child
// type. The name is the plural association key of a parent type whose own
// association runs in the opposite direction (e.g. "posts" on a Tag type,
// where Post declares the tags relationship).
func BelongsToMany(name string) *Builder {
	return newBuilder(KindBelongsToMany, name)
}

func newBuilder(kind Kind, name string) *Builder {
	d := &Descriptor{Kind: kind, Name: name}
	if name == "" {
		d.Err = fmt.Errorf("rel: %s relationship with empty name", kind)
	}
	return &Builder{desc: d}
}

// Target overrides the target type name. By default the target is derived
// from the association key at registration time (e.g. "posts" -> "Post").
func (b *Builder) Target(typeName string) *Builder {
	b.desc.Target = typeName
	return b
}

// Comment sets a documentation comment on the relationship.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// StructTag sets the struct tag used for the relationship in generated code.
func (b *Builder) StructTag(tag string) *Builder {
	b.desc.Tag = tag
	return b
}

// Option sets an entry in the open options bag. Option semantics are not
// interpreted by the resolution core; they are reserved for collaborators
// (e.g. custom foreign-key naming in a primitive accessor).
func (b *Builder) Option(key string, value any) *Builder {
	if b.desc.Options == nil {
		b.desc.Options = make(map[string]any)
	}
	b.desc.Options[key] = value
	return b
}

// Descriptor returns the built descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}

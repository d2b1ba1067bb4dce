package linkback

import (
	"context"
	"sort"
	"sync"

	"github.com/go-openapi/inflect"

	"github.com/linkback/linkback/schema/rel"
)

// CollectionFunc is a primitive accessor yielding the raw, not-yet
// cross-linked children of a parent instance. It is an external
// collaborator: it may issue its own source query based on link fields
// already present on the child records.
type CollectionFunc func(ctx context.Context, parent Instance) ([]Instance, error)

// SingleFunc is a primitive accessor yielding the raw single child of a
// parent instance, or nil when there is none.
type SingleFunc func(ctx context.Context, parent Instance) (Instance, error)

// Type describes a registered model type: its name, the singular and plural
// association keys derived from it, the relationships declared on it, and
// the primitive accessors bound to them. A Type is immutable once
// registration and binding are complete.
type Type struct {
	Name     string // model type name (e.g. "OrderItem")
	Singular string // singular association key (e.g. "order_item")
	Plural   string // plural association key (e.g. "order_items")

	relations   map[string]*rel.Descriptor
	order       []string
	collections map[string]CollectionFunc
	singles     map[string]SingleFunc
}

// Relation returns the declared relationship with the given name.
func (t *Type) Relation(name string) (*rel.Descriptor, bool) {
	d, ok := t.relations[name]
	return d, ok
}

// Relations returns the declared relationships in declaration order.
func (t *Type) Relations() []*rel.Descriptor {
	out := make([]*rel.Descriptor, len(t.order))
	for i, name := range t.order {
		out[i] = t.relations[name]
	}
	return out
}

// Declares reports whether the type declares a relationship with the given
// name, optionally restricted to the given kinds. This is the capability
// probe used during resolution in place of runtime introspection.
func (t *Type) Declares(name string, kinds ...rel.Kind) bool {
	d, ok := t.relations[name]
	if !ok {
		return false
	}
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if d.Kind == k {
			return true
		}
	}
	return false
}

// Collection returns the primitive collection accessor bound to name.
func (t *Type) Collection(name string) (CollectionFunc, bool) {
	fn, ok := t.collections[name]
	return fn, ok
}

// Single returns the primitive single accessor bound to name.
func (t *Type) Single(name string) (SingleFunc, bool) {
	fn, ok := t.singles[name]
	return fn, ok
}

// Registry maps model type names and association keys to type descriptors.
// Types are registered at definition time; lookups during resolution are
// exact-key queries, never dynamic name transformation.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
	byKey map[string]*Type // singular and plural keys -> owning type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*Type),
		byKey: make(map[string]*Type),
	}
}

// Register defines a model type with the given relationship declarations.
// It fails fast: descriptor errors carried by the builders (including the
// belongs-to non-atomic-key violation), duplicate type names, duplicate
// relationship names and association-key collisions all surface here as a
// ConfigurationError, before any accessor is ever invoked.
func (r *Registry) Register(name string, rels ...*rel.Descriptor) (*Type, error) {
	if name == "" {
		return nil, NewConfigurationError("", "", "empty type name", nil)
	}
	t := &Type{
		Name:        name,
		Singular:    inflect.Singularize(inflect.Underscore(name)),
		Plural:      inflect.Pluralize(inflect.Underscore(name)),
		relations:   make(map[string]*rel.Descriptor, len(rels)),
		collections: make(map[string]CollectionFunc),
		singles:     make(map[string]SingleFunc),
	}
	for _, d := range rels {
		if d == nil {
			return nil, NewConfigurationError(name, "", "nil relationship descriptor", nil)
		}
		if d.Err != nil {
			return nil, NewConfigurationError(name, d.Name, "invalid declaration", d.Err)
		}
		if _, ok := t.relations[d.Name]; ok {
			return nil, NewConfigurationError(name, d.Name, "duplicate relationship", nil)
		}
		t.relations[d.Name] = d
		t.order = append(t.order, d.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[name]; ok {
		return nil, NewConfigurationError(name, "", "type already registered", nil)
	}
	for _, key := range []string{t.Singular, t.Plural} {
		if prev, ok := r.byKey[key]; ok && prev.Name != name {
			return nil, NewConfigurationError(name, "", "association key "+key+" already mapped to "+prev.Name, nil)
		}
	}
	r.types[name] = t
	r.byKey[t.Singular] = t
	r.byKey[t.Plural] = t
	return t, nil
}

// MustRegister is like Register but panics on error. Intended for
// package-level model definitions where a failure is a programming error.
func (r *Registry) MustRegister(name string, rels ...*rel.Descriptor) *Type {
	t, err := r.Register(name, rels...)
	if err != nil {
		panic(err)
	}
	return t
}

// Type returns the registered type with the given name.
func (r *Registry) Type(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// TypeByKey returns the type owning the given singular or plural
// association key.
func (r *Registry) TypeByKey(key string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byKey[key]
	return t, ok
}

// Types returns all registered types, sorted by name.
func (r *Registry) Types() []*Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Type, 0, len(r.types))
	for _, t := range r.types {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// BindCollection binds the primitive collection accessor backing a has-many
// relationship. Binding must complete before resolution begins.
func (r *Registry) BindCollection(typeName, relName string, fn CollectionFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.types[typeName]
	if !ok {
		return NewNotRegisteredError(typeName)
	}
	d, ok := t.relations[relName]
	if !ok || d.Kind != rel.KindHasMany {
		return NewConfigurationError(typeName, relName, "no has_many relationship to bind", nil)
	}
	t.collections[relName] = fn
	return nil
}

// BindSingle binds the primitive single accessor backing a has-one
// relationship. Binding must complete before resolution begins.
func (r *Registry) BindSingle(typeName, relName string, fn SingleFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.types[typeName]
	if !ok {
		return NewNotRegisteredError(typeName)
	}
	d, ok := t.relations[relName]
	if !ok || d.Kind != rel.KindHasOne {
		return NewConfigurationError(typeName, relName, "no has_one relationship to bind", nil)
	}
	t.singles[relName] = fn
	return nil
}

// Package linkback synthesizes bidirectional relationships on top of records
// retrieved from a read-only record source whose native model only stores
// one-directional links (a child record references its parent, but the parent
// has no reverse link to its children).
//
// Model types are registered once, with their relationships declared through
// the builders in schema/rel. A Resolver then navigates the four relationship
// kinds — has-many, has-one, belongs-to and the inverse belongs-to-many —
// cross-linking resolved instances with the instance that triggered
// resolution, as if the source were relational.
package linkback

import (
	"context"

	"github.com/google/uuid"
)

// Instance is a runtime record of a registered model type.
type Instance interface {
	// ID returns the identifier of the record in the external source.
	ID() string

	// TypeName returns the registered model type name (e.g. "Post").
	TypeName() string
}

// Source is the record-source collaborator. It enumerates the materialized
// records of a model type and is consulted only by the belongs-to-many
// inverse search; the other relationship kinds obtain records through bound
// primitive accessors.
type Source interface {
	All(ctx context.Context, typeName string) ([]Instance, error)
}

// Entity is the embeddable instance base. It carries the identifier and type
// name of a record together with its back-reference slots: instance-local,
// typed navigational links to related instances that the source's data model
// does not provide. A back-reference is non-owning; its lifetime is
// independent of the referenced instance.
//
// Entity state is not synchronized. Relationship resolution is a synchronous,
// single-caller operation; callers sharing one instance graph across
// goroutines must add their own locking around accessor calls.
type Entity struct {
	id       string
	typeName string
	refs     map[string]Instance
	memo     map[string][]Instance
}

// NewEntity returns an Entity for the given model type and record
// identifier. An empty id is replaced with a generated UUID, for fixture
// records that have no source-assigned identifier.
func NewEntity(typeName, id string) Entity {
	if id == "" {
		id = uuid.NewString()
	}
	return Entity{id: id, typeName: typeName}
}

// ID returns the record identifier.
func (e *Entity) ID() string { return e.id }

// TypeName returns the model type name.
func (e *Entity) TypeName() string { return e.typeName }

// Ref returns the back-reference stored under name, and whether it was set.
func (e *Entity) Ref(name string) (Instance, bool) {
	v, ok := e.refs[name]
	return v, ok
}

// SetRef stores a back-reference under name. Setting the same value again is
// an observational no-op; setting a different value overwrites.
func (e *Entity) SetRef(name string, v Instance) {
	if e.refs == nil {
		e.refs = make(map[string]Instance)
	}
	e.refs[name] = v
}

// memoized returns the cached inverse-resolution result for name.
func (e *Entity) memoized(name string) ([]Instance, bool) {
	v, ok := e.memo[name]
	return v, ok
}

// memoize caches an inverse-resolution result for name. The cache is
// invalidated only by discarding the instance.
func (e *Entity) memoize(name string, v []Instance) {
	if e.memo == nil {
		e.memo = make(map[string][]Instance)
	}
	e.memo[name] = v
}

// refHolder is the instance-side capability for back-reference storage.
// *Entity implements it; embedding Entity promotes it to the model type.
type refHolder interface {
	Ref(name string) (Instance, bool)
	SetRef(name string, v Instance)
}

// inverseMemo is the instance-side capability for caching belongs-to-many
// results. *Entity implements it.
type inverseMemo interface {
	memoized(name string) ([]Instance, bool)
	memoize(name string, v []Instance)
}

package linkback

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/linkback/linkback/schema/rel"
)

// Resolver navigates declared relationships over a registry and a record
// source. Every accessor call runs to completion before returning; the
// resolver itself holds no mutable state.
type Resolver struct {
	reg *Registry
	src Source
	log *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for resolution tracing. The default
// discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		r.log = l
	}
}

// New returns a Resolver over the given registry and record source.
func New(reg *Registry, src Source, opts ...Option) *Resolver {
	r := &Resolver{reg: reg, src: src, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Many resolves a has-many relationship on parent. It obtains the raw
// collection from the bound primitive accessor, sets the back-reference of
// every child to parent, and returns the collection with its original
// ordering and cardinality intact. A child whose type does not declare the
// expected belongs-to back-reference fails the whole call with an
// UnsupportedRelationError; no partial result is returned.
func (r *Resolver) Many(ctx context.Context, parent Instance, name string) ([]Instance, error) {
	t, d, err := r.relation(parent, name, rel.KindHasMany)
	if err != nil {
		return nil, err
	}
	fn, ok := t.Collection(name)
	if !ok {
		return nil, NewConfigurationError(t.Name, name, "no primitive collection accessor bound", nil)
	}
	children, err := fn(ctx, parent)
	if err != nil {
		return nil, fmt.Errorf("linkback: resolving %s.%s: %w", t.Name, name, err)
	}
	for _, child := range children {
		if err := r.crossLink(child, parent, t); err != nil {
			return nil, err
		}
	}
	r.log.Debug("resolved has_many",
		zap.String("type", t.Name),
		zap.String("relation", d.Name),
		zap.String("id", parent.ID()),
		zap.Int("children", len(children)),
	)
	return children, nil
}

// One resolves a has-one relationship on parent. It obtains the raw child
// from the bound primitive accessor and, when the child's type declares the
// corresponding back-reference, sets it to parent. An absent child yields a
// nil result and no error. Repeated calls yield the same child and re-set
// the same back-reference value.
func (r *Resolver) One(ctx context.Context, parent Instance, name string) (Instance, error) {
	t, d, err := r.relation(parent, name, rel.KindHasOne)
	if err != nil {
		return nil, err
	}
	fn, ok := t.Single(name)
	if !ok {
		return nil, NewConfigurationError(t.Name, name, "no primitive single accessor bound", nil)
	}
	child, err := fn(ctx, parent)
	if err != nil {
		return nil, fmt.Errorf("linkback: resolving %s.%s: %w", t.Name, name, err)
	}
	if child == nil {
		return nil, nil
	}
	// Unlike has_many, a child without the back-reference declaration is
	// returned as-is rather than failing the call.
	if ct, ok := r.reg.Type(child.TypeName()); ok && ct.Declares(t.Singular, rel.KindBelongsTo) {
		if holder, ok := child.(refHolder); ok {
			holder.SetRef(t.Singular, parent)
		}
	}
	r.log.Debug("resolved has_one",
		zap.String("type", t.Name),
		zap.String("relation", d.Name),
		zap.String("id", parent.ID()),
	)
	return child, nil
}

// Parent returns the back-reference currently stored on child for a
// belongs-to relationship, or nil if it was never set.
func (r *Resolver) Parent(child Instance, name string) (Instance, error) {
	_, _, err := r.relation(child, name, rel.KindBelongsTo)
	if err != nil {
		return nil, err
	}
	holder, ok := child.(refHolder)
	if !ok {
		return nil, NewUnsupportedRelationError(child.TypeName(), name)
	}
	v, _ := holder.Ref(name)
	return v, nil
}

// SetParent stores a back-reference on child unconditionally. No type
// checking is performed beyond the structural requirement that child can
// hold back-references.
func (r *Resolver) SetParent(child Instance, name string, parent Instance) error {
	_, _, err := r.relation(child, name, rel.KindBelongsTo)
	if err != nil {
		return err
	}
	holder, ok := child.(refHolder)
	if !ok {
		return NewUnsupportedRelationError(child.TypeName(), name)
	}
	holder.SetRef(name, parent)
	return nil
}

// ManyInverse resolves a belongs-to-many relationship on child by inverse
// search: the source has no reverse link, so every candidate parent is
// fetched and tested. A candidate declaring the plural form of the child's
// association key is tested by membership of child's identifier in its
// resolved collection; a candidate declaring only the singular form is
// tested by identity of its resolved child. The two tests are mutually
// exclusive per candidate. Candidates declaring neither form are excluded
// without error. The filtered set is memoized on child; subsequent calls
// return it without querying the source. The search never mutates candidate
// instances beyond what their own accessors do.
func (r *Resolver) ManyInverse(ctx context.Context, child Instance, name string) ([]Instance, error) {
	t, d, err := r.relation(child, name, rel.KindBelongsToMany)
	if err != nil {
		return nil, err
	}
	memo, _ := child.(inverseMemo)
	if memo != nil {
		if cached, ok := memo.memoized(name); ok {
			return cached, nil
		}
	}
	target, err := r.targetType(t, d)
	if err != nil {
		return nil, err
	}
	candidates, err := r.src.All(ctx, target.Name)
	if err != nil {
		return nil, fmt.Errorf("linkback: resolving %s.%s: %w", t.Name, name, err)
	}

	var matched []Instance
	for _, cand := range candidates {
		switch {
		case target.Declares(t.Plural, rel.KindHasMany):
			members, err := r.Many(ctx, cand, t.Plural)
			if err != nil {
				return nil, err
			}
			for _, m := range members {
				if m.ID() == child.ID() {
					matched = append(matched, cand)
					break
				}
			}
		case target.Declares(t.Singular, rel.KindHasOne):
			c, err := r.One(ctx, cand, t.Singular)
			if err != nil {
				return nil, err
			}
			if c != nil && c.ID() == child.ID() {
				matched = append(matched, cand)
			}
		default:
			// Permissive: a candidate exposing neither form is dropped,
			// not an error. Logged so misconfiguration stays visible.
			r.log.Debug("excluding candidate without plural or singular accessor",
				zap.String("candidate", cand.TypeName()),
				zap.String("id", cand.ID()),
				zap.String("relation", name),
			)
		}
	}
	if memo != nil {
		memo.memoize(name, matched)
	}
	r.log.Debug("resolved belongs_to_many",
		zap.String("type", t.Name),
		zap.String("relation", name),
		zap.String("id", child.ID()),
		zap.Int("candidates", len(candidates)),
		zap.Int("matched", len(matched)),
	)
	return matched, nil
}

// relation looks up the instance's type and validates that it declares the
// named relationship with the expected kind.
func (r *Resolver) relation(i Instance, name string, kind rel.Kind) (*Type, *rel.Descriptor, error) {
	t, ok := r.reg.Type(i.TypeName())
	if !ok {
		return nil, nil, NewNotRegisteredError(i.TypeName())
	}
	d, ok := t.Relation(name)
	if !ok {
		return nil, nil, NewConfigurationError(t.Name, name, "relationship not declared", nil)
	}
	if d.Kind != kind {
		return nil, nil, NewConfigurationError(t.Name, name, "declared as "+d.Kind.String()+", resolved as "+kind.String(), nil)
	}
	return t, d, nil
}

// targetType resolves the target of an inverse relationship: the explicit
// target type if one was declared, otherwise the exact association key.
func (r *Resolver) targetType(t *Type, d *rel.Descriptor) (*Type, error) {
	if d.Target != "" {
		target, ok := r.reg.Type(d.Target)
		if !ok {
			return nil, NewConfigurationError(t.Name, d.Name, "target type "+d.Target+" not registered", nil)
		}
		return target, nil
	}
	target, ok := r.reg.TypeByKey(d.Name)
	if !ok {
		return nil, NewConfigurationError(t.Name, d.Name, "no registered type owns association key "+d.Name, nil)
	}
	return target, nil
}

// crossLink sets the back-reference of a resolved has-many child to its
// parent, failing when the child's type does not declare it.
func (r *Resolver) crossLink(child, parent Instance, parentType *Type) error {
	ct, ok := r.reg.Type(child.TypeName())
	if !ok || !ct.Declares(parentType.Singular, rel.KindBelongsTo) {
		return NewUnsupportedRelationError(child.TypeName(), parentType.Singular)
	}
	holder, ok := child.(refHolder)
	if !ok {
		return NewUnsupportedRelationError(child.TypeName(), parentType.Singular)
	}
	holder.SetRef(parentType.Singular, parent)
	return nil
}

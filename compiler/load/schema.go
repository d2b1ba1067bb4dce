// Package load provides the serializable form of model declarations: the
// exchange format between declaration code, tooling and the accessor code
// generator.
package load

import (
	"encoding/json"
	"fmt"

	"github.com/linkback/linkback"
	"github.com/linkback/linkback/schema/rel"
)

// Schema represents one model type declaration in serialized form.
type Schema struct {
	Name      string      `json:"name,omitempty"`
	Relations []*Relation `json:"relations,omitempty"`
}

// Relation represents one relationship declaration in serialized form.
type Relation struct {
	Name    string         `json:"name,omitempty"`
	Kind    rel.Kind       `json:"kind,omitempty"`
	Target  string         `json:"target,omitempty"`
	Comment string         `json:"comment,omitempty"`
	Tag     string         `json:"tag,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

// NewRelation creates a loaded relation from a builder descriptor.
// It returns an error if the descriptor carries one.
func NewRelation(d *rel.Descriptor) (*Relation, error) {
	if d.Err != nil {
		return nil, fmt.Errorf("relation %q: %w", d.Name, d.Err)
	}
	return &Relation{
		Name:    d.Name,
		Kind:    d.Kind,
		Target:  d.Target,
		Comment: d.Comment,
		Tag:     d.Tag,
		Options: d.Options,
	}, nil
}

// Descriptor converts the loaded relation back to a builder descriptor,
// ready for registration.
func (r *Relation) Descriptor() (*rel.Descriptor, error) {
	var b *rel.Builder
	switch r.Kind {
	case rel.KindHasMany:
		b = rel.HasMany(r.Name)
	case rel.KindHasOne:
		b = rel.HasOne(r.Name)
	case rel.KindBelongsTo:
		b = rel.BelongsTo(r.Name)
	case rel.KindBelongsToMany:
		b = rel.BelongsToMany(r.Name)
	default:
		return nil, fmt.Errorf("relation %q: unknown kind", r.Name)
	}
	if r.Target != "" {
		b.Target(r.Target)
	}
	if r.Comment != "" {
		b.Comment(r.Comment)
	}
	if r.Tag != "" {
		b.StructTag(r.Tag)
	}
	for k, v := range r.Options {
		b.Option(k, v)
	}
	d := b.Descriptor()
	if d.Err != nil {
		return nil, fmt.Errorf("relation %q: %w", r.Name, d.Err)
	}
	return d, nil
}

// NewSchema creates a loaded schema from a registered type.
func NewSchema(t *linkback.Type) (*Schema, error) {
	s := &Schema{Name: t.Name}
	for _, d := range t.Relations() {
		nr, err := NewRelation(d)
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", t.Name, err)
		}
		s.Relations = append(s.Relations, nr)
	}
	return s, nil
}

// MarshalRegistry encodes every type registered in reg as a JSON schema
// list that can be decoded with UnmarshalSchemas.
func MarshalRegistry(reg *linkback.Registry) ([]byte, error) {
	var schemas []*Schema
	for _, t := range reg.Types() {
		s, err := NewSchema(t)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return json.MarshalIndent(schemas, "", "  ")
}

// UnmarshalSchemas decodes a schema list previously produced by
// MarshalRegistry, or written by hand as generator input.
func UnmarshalSchemas(buf []byte) ([]*Schema, error) {
	var schemas []*Schema
	if err := json.Unmarshal(buf, &schemas); err != nil {
		return nil, fmt.Errorf("load: decoding schemas: %w", err)
	}
	return schemas, nil
}

// RegisterAll registers every loaded schema into reg, in order.
func RegisterAll(reg *linkback.Registry, schemas []*Schema) error {
	for _, s := range schemas {
		descriptors := make([]*rel.Descriptor, 0, len(s.Relations))
		for _, r := range s.Relations {
			d, err := r.Descriptor()
			if err != nil {
				return fmt.Errorf("schema %q: %w", s.Name, err)
			}
			descriptors = append(descriptors, d)
		}
		if _, err := reg.Register(s.Name, descriptors...); err != nil {
			return err
		}
	}
	return nil
}

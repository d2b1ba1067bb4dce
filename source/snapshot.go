package source

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/linkback/linkback"
)

// Record is the raw, type-agnostic form of a source record inside a
// snapshot: the identifier, the owning type and the attribute data as
// fetched from the external source.
type Record struct {
	ID         string         `msgpack:"id"`
	Type       string         `msgpack:"type"`
	Attributes map[string]any `msgpack:"attributes,omitempty"`
}

// WriteSnapshot encodes a materialized record set to w in msgpack, for
// offline fixtures and replay.
func WriteSnapshot(w io.Writer, records []Record) error {
	if err := msgpack.NewEncoder(w).Encode(records); err != nil {
		return fmt.Errorf("source: encoding snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a record set previously written by WriteSnapshot.
func ReadSnapshot(r io.Reader) ([]Record, error) {
	var records []Record
	if err := msgpack.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("source: decoding snapshot: %w", err)
	}
	return records, nil
}

// MaterializeFunc turns a raw snapshot record into a typed instance.
type MaterializeFunc func(rec Record) (linkback.Instance, error)

// Snapshot is a record source over a decoded snapshot. Raw records are
// grouped by type at construction; materialization happens per All call
// through explicitly registered functions.
type Snapshot struct {
	mu           sync.RWMutex
	byType       map[string][]Record
	materializer map[string]MaterializeFunc
}

// NewSnapshot returns a source over the given records.
func NewSnapshot(records []Record) *Snapshot {
	s := &Snapshot{
		byType:       make(map[string][]Record),
		materializer: make(map[string]MaterializeFunc),
	}
	for _, rec := range records {
		s.byType[rec.Type] = append(s.byType[rec.Type], rec)
	}
	return s
}

// Materialize registers the materializer for a type.
func (s *Snapshot) Materialize(typeName string, fn MaterializeFunc) {
	s.mu.Lock()
	s.materializer[typeName] = fn
	s.mu.Unlock()
}

// All implements linkback.Source.
func (s *Snapshot) All(_ context.Context, typeName string) ([]linkback.Instance, error) {
	s.mu.RLock()
	fn, ok := s.materializer[typeName]
	records := s.byType[typeName]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("source: no materializer registered for type %q", typeName)
	}
	out := make([]linkback.Instance, 0, len(records))
	for _, rec := range records {
		i, err := fn(rec)
		if err != nil {
			return nil, fmt.Errorf("source: materializing %s %q: %w", typeName, rec.ID, err)
		}
		out = append(out, i)
	}
	return out, nil
}

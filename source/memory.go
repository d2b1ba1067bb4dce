// Package source provides record-source implementations behind the
// linkback.Source contract: an in-memory fixture source, a read-only HTTP
// content-API client, a msgpack snapshot store, and a caching wrapper.
package source

import (
	"context"
	"sync"

	"github.com/linkback/linkback"
)

// Memory is an in-memory record source, mainly for fixtures and tests.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]linkback.Instance
}

// NewMemory returns an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{records: make(map[string][]linkback.Instance)}
}

// Add appends records to the collection of the given type, preserving
// insertion order.
func (m *Memory) Add(typeName string, instances ...linkback.Instance) {
	m.mu.Lock()
	m.records[typeName] = append(m.records[typeName], instances...)
	m.mu.Unlock()
}

// All implements linkback.Source. An unknown type yields an empty
// collection, not an error.
func (m *Memory) All(_ context.Context, typeName string) ([]linkback.Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]linkback.Instance, len(m.records[typeName]))
	copy(out, m.records[typeName])
	return out, nil
}

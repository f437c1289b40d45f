// Package sources wires the scanner export converters together.
package sources

import (
	"sort"
	"sync"

	"github.com/felixgeelhaar/srmbridge/internal/application/ports"
)

// Registry manages the available export converters.
// It implements ports.ConverterRegistry.
type Registry struct {
	mu         sync.RWMutex
	converters map[ports.SourceID]ports.Converter
}

// NewRegistry creates a new converter registry.
func NewRegistry() *Registry {
	return &Registry{
		converters: make(map[ports.SourceID]ports.Converter),
	}
}

// Register adds a converter to the registry, replacing any converter with
// the same ID.
func (r *Registry) Register(c ports.Converter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.converters[c.ID()] = c
}

// Get returns a converter by ID.
func (r *Registry) Get(id ports.SourceID) (ports.Converter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.converters[id]
	return c, ok
}

// All returns all registered converters ordered by ID.
func (r *Registry) All() []ports.Converter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ports.Converter, 0, len(r.converters))
	for _, c := range r.converters {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID() < result[j].ID() })
	return result
}

// IDs returns all registered source IDs in order.
func (r *Registry) IDs() []ports.SourceID {
	all := r.All()
	ids := make([]ports.SourceID, len(all))
	for i, c := range all {
		ids[i] = c.ID()
	}
	return ids
}

// Count returns the number of registered converters.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.converters)
}

// Unregister removes a converter from the registry.
func (r *Registry) Unregister(id ports.SourceID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.converters[id]; exists {
		delete(r.converters, id)
		return true
	}
	return false
}

// Ensure Registry implements ports.ConverterRegistry
var _ ports.ConverterRegistry = (*Registry)(nil)

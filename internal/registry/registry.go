package registry

import (
	"inferd/internal/dispatch"
	"inferd/pkg/types"
)

// Registry holds the loaded models, keyed by name. It is populated at
// startup and read-only afterwards, so concurrent request handling needs no
// locking here.
type Registry struct {
	models map[string]*dispatch.Model
	order  []string
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{models: make(map[string]*dispatch.Model)}
}

// Register adds a model. Re-registering a name overwrites it; last wins.
// Only call during initialization.
func (r *Registry) Register(m *dispatch.Model) {
	name := m.Meta.Name
	if _, exists := r.models[name]; !exists {
		r.order = append(r.order, name)
	}
	r.models[name] = m
}

// Get returns the named model.
func (r *Registry) Get(name string) (*dispatch.Model, bool) {
	m, ok := r.models[name]
	return m, ok
}

// Len returns the number of loaded models.
func (r *Registry) Len() int { return len(r.models) }

// List returns the metadata of all loaded models in registration order.
func (r *Registry) List() []*types.ModelMetadata {
	out := make([]*types.ModelMetadata, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.models[name].Meta)
	}
	return out
}

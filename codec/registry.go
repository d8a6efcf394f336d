package codec

import (
	"slices"
	"sync"
)

// Registry manages the available engines by name
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]Engine)}
}

var defaultRegistry = NewRegistry()

// Register registers an engine in the default registry
func Register(name string, engine Engine) {
	defaultRegistry.Register(name, engine)
}

// Get retrieves an engine by name from the default registry
func Get(name string) (Engine, error) {
	return defaultRegistry.Get(name)
}

// List returns the names registered in the default registry
func List() []string {
	return defaultRegistry.List()
}

// Register registers an engine, replacing any engine with the same name
func (r *Registry) Register(name string, engine Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.engines[name] = engine
}

// Get retrieves an engine by name
func (r *Registry) Get(name string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	engine, ok := r.engines[name]
	if !ok {
		return nil, ErrEngineNotFound
	}
	return engine, nil
}

// List returns all registered names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

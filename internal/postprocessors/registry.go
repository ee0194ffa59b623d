package postprocessors

import (
	"fmt"
	"sort"
)

// BuilderFunc creates a strategy from generic config.
// Config is a map of strategy-specific settings parsed from user config.
type BuilderFunc[T any] func(cfg map[string]any) (T, error)

// Registry maps strategy names to their builders.
// It allows dynamic construction of strategies from configuration.
type Registry[T any] struct {
	builders map[string]BuilderFunc[T]
}

// NewRegistry creates a new strategy registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		builders: make(map[string]BuilderFunc[T]),
	}
}

// Register adds a builder to the registry.
// Name should be unique and match the strategy's Name() return value.
func (r *Registry[T]) Register(name string, builder BuilderFunc[T]) {
	r.builders[name] = builder
}

// Build creates a strategy by name with the given config.
// Returns error if the name is not registered.
func (r *Registry[T]) Build(name string, cfg map[string]any) (T, error) {
	builder, ok := r.builders[name]
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown strategy: %s", name)
	}
	return builder(cfg)
}

// Has returns true if a strategy with the given name is registered.
func (r *Registry[T]) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered names, sorted.
func (r *Registry[T]) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

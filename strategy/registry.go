package strategy

import (
	"fmt"
	"sort"
)

// Factory constructs a Core variant for a run.
type Factory func(cfg Config) (Core, error)

// Registry maps strategy names to factories. It is built once at startup,
// read-only afterwards, and passed by reference to consumers; there is no
// shared mutable global.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a named factory. Registering the same name twice is a
// wiring bug and returns an error.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("strategy: empty registry name")
	}
	if f == nil {
		return fmt.Errorf("strategy: nil factory for %q", name)
	}
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("strategy: %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// New resolves name and constructs the variant.
func (r *Registry) New(name string, cfg Config) (Core, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("strategy: unknown strategy %q (have: %v)", name, r.Names())
	}
	return f(cfg)
}

// Names lists registered strategies, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

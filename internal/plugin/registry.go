package plugin

import (
	"fmt"
	"sort"
)

// Registry maps plugin names to implementations. Implementations are
// registered at wiring time and looked up by the names found in config.
type Registry[T any] struct {
	kind  string
	items map[string]T
}

func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:  kind,
		items: make(map[string]T),
	}
}

func (r *Registry[T]) Register(name string, impl T) error {
	if name == "" {
		return fmt.Errorf("%s name is required", r.kind)
	}
	if _, exists := r.items[name]; exists {
		return fmt.Errorf("%s %q already registered", r.kind, name)
	}
	r.items[name] = impl
	return nil
}

func (r *Registry[T]) Get(name string) (T, error) {
	impl, exists := r.items[name]
	if !exists {
		return impl, fmt.Errorf("%s %q not found", r.kind, name)
	}
	return impl, nil
}

// Select resolves names in the given order.
func (r *Registry[T]) Select(names []string) ([]T, error) {
	selected := make([]T, 0, len(names))
	for _, name := range names {
		impl, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, impl)
	}
	return selected, nil
}

func (r *Registry[T]) Names() []string {
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package api

import (
	"fmt"
	"sync"
)

// Factory builds a fresh Descriptor for one call from the caller's
// arguments. Factory errors propagate to the dispatcher unchanged — the
// engine does not catch, wrap, or record them.
type Factory func(args ...any) (*Descriptor, error)

// Registry maps API names to descriptor factories.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty API registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register registers a factory under the given name. Re-registering a name
// replaces the previous factory.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Get returns the factory for the given API name.
// Returns false if no factory is registered.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns all registered API names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}

// RegisterTyped registers a factory taking a single typed argument. The
// variadic call args are checked and converted before the typed builder
// runs.
//
// This is a package-level generic function because Go does not allow
// generic methods on non-generic receiver types.
func RegisterTyped[T any](r *Registry, name string, build func(arg T) *Descriptor) {
	r.Register(name, func(args ...any) (*Descriptor, error) {
		var arg T
		switch len(args) {
		case 0:
			// Zero args: the zero value of T.
		case 1:
			typed, ok := args[0].(T)
			if !ok {
				return nil, fmt.Errorf("api %q: argument is %T, want %T", name, args[0], arg)
			}
			arg = typed
		default:
			return nil, fmt.Errorf("api %q: got %d arguments, want at most 1", name, len(args))
		}
		return build(arg), nil
	})
}

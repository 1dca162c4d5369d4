package definition

import (
	"fmt"

	"github.com/comalice/microfsm"
)

// Registry resolves the hook names a definition file references to Go
// functions. Hosts fill it before calling Build.
type Registry struct {
	hooks map[string]microfsm.Hook
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make(map[string]microfsm.Hook)}
}

// RegisterHook binds name to fn. Re-registering a name replaces the
// previous binding.
func (r *Registry) RegisterHook(name string, fn microfsm.Hook) {
	r.hooks[name] = fn
}

// hook resolves name, treating the empty string as "no hook". A nil
// Registry resolves only the empty name.
func (r *Registry) hook(name string) (microfsm.Hook, error) {
	if name == "" {
		return nil, nil
	}
	if r == nil {
		return nil, fmt.Errorf("unknown hook %q", name)
	}
	fn, ok := r.hooks[name]
	if !ok {
		return nil, fmt.Errorf("unknown hook %q", name)
	}
	return fn, nil
}

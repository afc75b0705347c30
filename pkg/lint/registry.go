package lint

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrDuplicatePlugin is returned when an ID is registered twice.
	ErrDuplicatePlugin = errors.New("duplicate plugin")

	// ErrUnknownPlugin is returned when a selection names an unregistered ID.
	ErrUnknownPlugin = errors.New("unknown plugin")
)

// Registry holds plugins in registration order.
type Registry struct {
	mu      sync.RWMutex
	byID    map[string]Plugin
	ordered []Plugin
}

// NewRegistry creates an empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		byID: make(map[string]Plugin),
	}
}

// Register adds a plugin to the registry.
func (r *Registry) Register(plugin Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := plugin.ID()
	if _, ok := r.byID[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePlugin, id)
	}
	r.byID[id] = plugin
	r.ordered = append(r.ordered, plugin)
	return nil
}

// MustRegister is Register for init functions; it panics on error.
func (r *Registry) MustRegister(plugin Plugin) {
	if err := r.Register(plugin); err != nil {
		panic(err)
	}
}

// Get retrieves a plugin by ID.
func (r *Registry) Get(id string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	plugin, ok := r.byID[id]
	return plugin, ok
}

// Plugins returns all registered plugins in registration order.
func (r *Registry) Plugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.ordered)
}

// IDs returns all registered plugin IDs in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.ordered))
	for _, p := range r.ordered {
		ids = append(ids, p.ID())
	}
	return ids
}

// Defaults returns the default-enabled plugins in registration order.
func (r *Registry) Defaults() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Plugin
	for _, p := range r.ordered {
		if p.DefaultEnabled() {
			out = append(out, p)
		}
	}
	return out
}

// Resolve picks the plugins for a run. A non-empty only list selects
// exactly those plugins. Otherwise the defaults are extended by enable and
// then reduced by disable. The result keeps registration order. Any unknown
// ID fails with ErrUnknownPlugin.
func (r *Registry) Resolve(only, enable, disable []string) ([]Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := r.checkKnown(only, enable, disable); err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(r.ordered))
	if len(only) > 0 {
		for _, id := range only {
			selected[id] = true
		}
	} else {
		for _, p := range r.ordered {
			selected[p.ID()] = p.DefaultEnabled()
		}
		for _, id := range enable {
			selected[id] = true
		}
		for _, id := range disable {
			selected[id] = false
		}
	}

	var out []Plugin
	for _, p := range r.ordered {
		if selected[p.ID()] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Registry) checkKnown(lists ...[]string) error {
	var unknown []string
	for _, list := range lists {
		for _, id := range list {
			if _, ok := r.byID[id]; !ok && !slices.Contains(unknown, id) {
				unknown = append(unknown, id)
			}
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPlugin, strings.Join(unknown, ", "))
	}
	return nil
}

// DefaultRegistry is the global registry for built-in plugins.
// Plugins register themselves during init().
//
//nolint:gochecknoglobals // Global registry is intentional for plugin registration
var DefaultRegistry = NewRegistry()

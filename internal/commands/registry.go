package commands

import (
	"fmt"
	"sort"
	"sync"
)

// Factory returns a fresh command, with its flag values unset.
type Factory func() Command

// Registry holds registered commands.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory // name and aliases map to factory
	primary   map[string]Factory // name only
}

// NewRegistry creates a new command registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		primary:   make(map[string]Factory),
	}
}

// Register adds a command factory to the registry.
// Returns an error if the name or any alias is already registered.
func (r *Registry) Register(f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := f()
	name := c.Name()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("command already registered: %s", name)
	}

	for _, alias := range c.Aliases() {
		if _, exists := r.factories[alias]; exists {
			return fmt.Errorf("command alias already registered: %s", alias)
		}
	}

	r.factories[name] = f
	r.primary[name] = f
	for _, alias := range c.Aliases() {
		r.factories[alias] = f
	}

	return nil
}

// Find looks up a command by name or alias and returns a new instance.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// All returns a new instance of every command, sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.primary))
	for name := range r.primary {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]Command, len(names))
	for i, name := range names {
		result[i] = r.primary[name]()
	}
	return result
}

// DefaultRegistry is the global command registry.
var DefaultRegistry = NewRegistry()

// Register adds a command factory to the default registry.
func Register(f Factory) {
	if err := DefaultRegistry.Register(f); err != nil {
		panic(err)
	}
}

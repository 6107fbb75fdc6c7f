package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/artpar/sparrow/core/schema"
)

// Functions manages named hooks for "call:" directives in schema YAML.
type Functions struct {
	mu    sync.RWMutex
	funcs map[string]schema.Hook
}

// NewFunctions creates an empty function set.
func NewFunctions() *Functions {
	return &Functions{
		funcs: make(map[string]schema.Hook),
	}
}

// Register adds a function. A later registration under the same name
// replaces the earlier one.
func (f *Functions) Register(name string, fn schema.Hook) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.funcs[name] = fn
}

// Lookup returns a registered function.
func (f *Functions) Lookup(name string) (schema.Hook, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fn, ok := f.funcs[name]
	return fn, ok
}

// Call invokes a registered function by name.
func (f *Functions) Call(name string, r schema.Record) error {
	fn, ok := f.Lookup(name)
	if !ok {
		return fmt.Errorf("function %q not registered", name)
	}
	return fn(r)
}

// Has checks if a function is registered.
func (f *Functions) Has(name string) bool {
	_, ok := f.Lookup(name)
	return ok
}

// List returns all registered function names, sorted.
func (f *Functions) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.funcs))
	for name := range f.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

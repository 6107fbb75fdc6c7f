// Package registry manages named schemas and the hook functions that YAML
// definitions call. It links "extends" references by name and rejects
// duplicates, unknown parents, unknown functions and cycles.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/artpar/sparrow/core/convention"
	"github.com/artpar/sparrow/core/schema"
)

// Config holds registry dependencies.
type Config struct {
	// Logger for load diagnostics.
	Logger zerolog.Logger

	// Functions resolves "call:" hook directives. A new set is created when nil.
	Functions *Functions
}

// Registry manages registered schemas.
type Registry struct {
	mu sync.RWMutex

	// schemas by name
	schemas map[string]*schema.Schema

	// sources records the file a schema was loaded from
	sources map[string]string

	funcs  *Functions
	logger zerolog.Logger
}

// New creates a new registry with no logging.
func New() *Registry {
	return NewWithConfig(Config{Logger: zerolog.Nop()})
}

// NewWithConfig creates a new registry.
func NewWithConfig(cfg Config) *Registry {
	funcs := cfg.Functions
	if funcs == nil {
		funcs = NewFunctions()
	}
	return &Registry{
		schemas: make(map[string]*schema.Schema),
		sources: make(map[string]string),
		funcs:   funcs,
		logger:  cfg.Logger,
	}
}

// Functions returns the hook function set used by Load.
func (r *Registry) Functions() *Functions {
	return r.funcs
}

// Register freezes a schema and registers it under its name.
func (r *Registry) Register(s *schema.Schema) error {
	if err := s.Freeze(); err != nil {
		return fmt.Errorf("register %s: %w", s.Name(), err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[s.Name()]; exists {
		return fmt.Errorf("schema %q already registered", s.Name())
	}
	r.schemas[s.Name()] = s
	return nil
}

// Unregister removes a schema. It fails while another registered schema
// extends it.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.schemas[name]
	if !exists {
		return fmt.Errorf("schema %q not registered", name)
	}

	for childName, child := range r.schemas {
		if child.Parent() == s {
			return fmt.Errorf("schema %q is extended by %q", name, childName)
		}
	}

	delete(r.schemas, name)
	delete(r.sources, name)
	return nil
}

// Get returns a registered schema by name.
func (r *Registry) Get(name string) (*schema.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[name]
	return s, ok
}

// Source returns the file a schema was loaded from, or "".
func (r *Registry) Source(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sources[name]
}

// List returns all registered schemas sorted by name.
func (r *Registry) List() []*schema.Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schemas := make([]*schema.Schema, 0, len(r.schemas))
	for _, s := range r.schemas {
		schemas = append(schemas, s)
	}

	sort.Slice(schemas, func(i, j int) bool {
		return schemas[i].Name() < schemas[j].Name()
	})

	return schemas
}

// Names returns all registered schema names, sorted.
func (r *Registry) Names() []string {
	schemas := r.List()
	names := make([]string, len(schemas))
	for i, s := range schemas {
		names[i] = s.Name()
	}
	return names
}

// Describe returns the derived view of a registered schema.
func (r *Registry) Describe(name string) (convention.Derived, error) {
	s, ok := r.Get(name)
	if !ok {
		return convention.Derived{}, fmt.Errorf("schema %q not registered", name)
	}
	return convention.Derive(s)
}

// LoadDir parses every definition under dir and loads them.
func (r *Registry) LoadDir(dir string) error {
	defs, err := schema.ParseDir(dir)
	if err != nil {
		return err
	}
	return r.Load(defs)
}

// Load builds, links and freezes a set of definitions. A definition may extend
// another one in the same set or an already registered schema. Either all
// definitions are registered or none.
func (r *Registry) Load(defs []schema.Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byName := make(map[string]schema.Definition, len(defs))
	var errs []error

	for _, def := range defs {
		if _, exists := r.schemas[def.Name]; exists {
			errs = append(errs, fmt.Errorf("schema %q already registered", def.Name))
			continue
		}
		if _, exists := byName[def.Name]; exists {
			errs = append(errs, fmt.Errorf("schema %q defined more than once", def.Name))
			continue
		}
		byName[def.Name] = def
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	l := &loader{
		registered: r.schemas,
		defs:       byName,
		lookup:     r.funcs.Lookup,
		built:      make(map[string]*schema.Schema, len(defs)),
		failed:     make(map[string]error),
	}

	reported := make(map[string]bool)
	for _, def := range defs {
		if _, err := l.build(def.Name, nil); err != nil && !reported[err.Error()] {
			reported[err.Error()] = true
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, def := range defs {
		r.schemas[def.Name] = l.built[def.Name]
		if def.Source != "" {
			r.sources[def.Name] = def.Source
		}
		r.logger.Debug().
			Str("schema", def.Name).
			Str("extends", def.Extends).
			Str("source", def.Source).
			Msg("schema loaded")
	}

	return nil
}

// loader builds definitions parents first.
type loader struct {
	registered map[string]*schema.Schema
	defs       map[string]schema.Definition
	lookup     schema.HookLookup
	built      map[string]*schema.Schema
	failed     map[string]error
}

// build returns the frozen schema of a definition, building its parent chain
// first. path holds the names currently being built.
func (l *loader) build(name string, path []string) (*schema.Schema, error) {
	if s, ok := l.built[name]; ok {
		return s, nil
	}
	if err, ok := l.failed[name]; ok {
		return nil, err
	}
	for i, p := range path {
		if p == name {
			chain := append(append([]string(nil), path[i:]...), name)
			return nil, &schema.SchemaCycleError{Schema: name, Chain: chain}
		}
	}

	s, err := l.buildDefinition(l.defs[name], append(path, name))
	if err != nil {
		l.failed[name] = err
		return nil, err
	}
	l.built[name] = s
	return s, nil
}

func (l *loader) buildDefinition(def schema.Definition, path []string) (*schema.Schema, error) {
	var parent *schema.Schema
	if def.Extends != "" {
		if _, ok := l.defs[def.Extends]; ok {
			p, err := l.build(def.Extends, path)
			if err != nil {
				return nil, err
			}
			parent = p
		} else if p, ok := l.registered[def.Extends]; ok {
			parent = p
		} else {
			return nil, fmt.Errorf("schema %q extends unknown schema %q", def.Name, def.Extends)
		}
	}

	s, err := schema.Build(def, parent, l.lookup)
	if err != nil {
		return nil, err
	}
	if err := s.Freeze(); err != nil {
		return nil, err
	}
	return s, nil
}

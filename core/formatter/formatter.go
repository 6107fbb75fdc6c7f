// Package formatter provides a pluggable output formatting system.
// Formatters render entities, schema descriptions and errors as table, json
// or yaml.
package formatter

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/artpar/sparrow/core/convention"
	"github.com/artpar/sparrow/core/entity"
)

// Formatter converts entities and schemas to a specific output format.
type Formatter interface {
	// Name returns the formatter name (e.g., "table", "json", "yaml").
	Name() string

	// Description returns a human-readable description.
	Description() string

	// FormatEntity formats a single entity.
	FormatEntity(w io.Writer, e *entity.Entity, opts FormatOptions) error

	// FormatList formats entities of one schema.
	FormatList(w io.Writer, entities []*entity.Entity, opts FormatOptions) error

	// FormatSchema formats a schema description.
	FormatSchema(w io.Writer, d convention.Derived, opts FormatOptions) error

	// FormatError formats an error.
	FormatError(w io.Writer, err error) error
}

// FormatOptions configures formatting behavior.
type FormatOptions struct {
	// Columns specifies which fields to include (nil = all).
	Columns []string

	// NoHeader disables header row for tabular formats.
	NoHeader bool

	// Compact minimizes whitespace (for json).
	Compact bool

	// MaxWidth truncates long values (0 = no limit).
	MaxWidth int

	// Label returns the display label of a field for tabular formats.
	// Fields without a label are shown by name.
	Label func(field string) (string, bool)
}

// Registry manages registered formatters.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
	defaultFmt string
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
		defaultFmt: "table",
	}
}

// Register adds a formatter to the registry.
func (r *Registry) Register(f Formatter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[f.Name()]; exists {
		return fmt.Errorf("formatter %q already registered", f.Name())
	}

	r.formatters[f.Name()] = f
	return nil
}

// Get returns a formatter by name.
func (r *Registry) Get(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.formatters[name]
	return f, ok
}

// Default returns the default formatter.
func (r *Registry) Default() Formatter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if f, ok := r.formatters[r.defaultFmt]; ok {
		return f
	}
	// Fallback to the first name in order
	names := r.namesLocked()
	if len(names) == 0 {
		return nil
	}
	return r.formatters[names[0]]
}

// SetDefault sets the default formatter.
func (r *Registry) SetDefault(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[name]; !exists {
		return fmt.Errorf("formatter %q not registered", name)
	}

	r.defaultFmt = name
	return nil
}

// List returns all registered formatter names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter to the default registry.
func Register(f Formatter) error {
	return DefaultRegistry.Register(f)
}

// Get returns a formatter from the default registry.
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// Default returns the default formatter from the default registry.
func Default() Formatter {
	return DefaultRegistry.Default()
}

// List returns all formatter names from the default registry.
func List() []string {
	return DefaultRegistry.List()
}

// columns returns the requested columns, or every attribute name in order.
func columns(e *entity.Entity, requested []string) []string {
	if len(requested) > 0 {
		return requested
	}
	return e.AttributeNames()
}

// record returns the selected attributes of e, with values made
// encoder-friendly.
func record(e *entity.Entity, requested []string) map[string]any {
	out := make(map[string]any)
	for _, col := range columns(e, requested) {
		v, ok := e.Lookup(col)
		if !ok {
			continue
		}
		out[col] = plain(v)
	}
	return out
}

// plain converts values whose default encoding is unreadable.
func plain(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val
	case time.Duration:
		return val.String()
	case fmt.Stringer:
		// uuid.UUID and similar identifiers
		return val.String()
	default:
		return v
	}
}

// schemaName returns the schema name of a list, or "" when empty.
func schemaName(entities []*entity.Entity) string {
	if len(entities) == 0 {
		return ""
	}
	return entities[0].Schema().Name()
}

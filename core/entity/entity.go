// Package entity constructs and holds instances of schemas.
package entity

import (
	"github.com/artpar/sparrow/core/schema"
)

// Entity is one instance of a schema. Its values are keyed by exactly the
// schema's effective field names.
//
// An Entity is not safe for concurrent mutation; distinct entities share
// nothing mutable.
type Entity struct {
	schema *schema.Schema
	values map[string]any
	labels schema.LabelResolver
}

func newEntity(s *schema.Schema, accessors []*schema.Accessor, labels schema.LabelResolver) *Entity {
	values := make(map[string]any, len(accessors))
	for _, a := range accessors {
		values[a.Field.Name] = nil
	}
	return &Entity{schema: s, values: values, labels: labels}
}

// Schema returns the entity's schema.
func (e *Entity) Schema() *schema.Schema {
	return e.schema
}

// Get returns the value of a field, or its default while the stored value is
// nil. Undeclared names return nil.
func (e *Entity) Get(name string) any {
	v, _ := e.Lookup(name)
	return v
}

// Lookup is Get that also reports whether the schema declares name.
func (e *Entity) Lookup(name string) (any, bool) {
	a, err := e.schema.Accessor(name)
	if err != nil {
		return nil, false
	}
	return a.Get(e.values), true
}

// Stored returns the stored value without the default applied.
func (e *Entity) Stored(name string) any {
	return e.values[name]
}

// Set coerces value through the field's type and stores it.
func (e *Entity) Set(name string, value any) error {
	if _, ok := e.values[name]; !ok {
		return &UnknownAttributeError{Schema: e.schema.Name(), Name: name}
	}
	a, err := e.schema.Accessor(name)
	if err != nil {
		return err
	}
	return a.Set(e.values, value)
}

// Attributes returns every field value with defaults applied.
func (e *Entity) Attributes() map[string]any {
	out := make(map[string]any, len(e.values))
	for _, name := range e.AttributeNames() {
		out[name] = e.Get(name)
	}
	return out
}

// AttributeNames returns the effective field names in order.
func (e *Entity) AttributeNames() []string {
	names, _ := e.schema.FieldNames()
	return names
}

// ID returns the primary key value, or nil when the schema has none.
func (e *Entity) ID() any {
	pk := e.schema.PrimaryKey()
	if pk == "" {
		return nil
	}
	return e.Get(pk)
}

// Label resolves the human-readable label of a field.
func (e *Entity) Label(name string, q schema.LabelQuery) (string, error) {
	if e.labels == nil {
		return "", ErrNoLabelResolver
	}
	return e.labels.ResolveLabel(e.schema, name, q)
}

// Value returns a field value as T. The second result is false when the value
// is nil or of another type.
func Value[T any](e *Entity, name string) (T, bool) {
	v, ok := e.Get(name).(T)
	return v, ok
}

var _ schema.Record = (*Entity)(nil)

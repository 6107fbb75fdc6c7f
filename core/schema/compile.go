package schema

import (
	"fmt"

	"github.com/artpar/sparrow/core/coerce"
)

// Accessor is the compiled getter/setter pair of one effective field.
type Accessor struct {
	Field  Field
	coerce coerce.Func
}

// Get returns the stored value, or the field's default while it is nil.
func (a *Accessor) Get(values map[string]any) any {
	v := values[a.Field.Name]
	if v == nil && a.Field.HasDefault {
		return a.Field.DefaultValue()
	}
	return v
}

// Set coerces raw and stores the result. On a coercion error nothing is
// stored.
func (a *Accessor) Set(values map[string]any, raw any) error {
	v, err := a.coerce(raw)
	if err != nil {
		return fmt.Errorf("set %s: %w", a.Field.Name, err)
	}
	values[a.Field.Name] = v
	return nil
}

func compile(fields []Field) (map[string]*Accessor, []*Accessor) {
	byName := make(map[string]*Accessor, len(fields))
	ordered := make([]*Accessor, 0, len(fields))

	for _, f := range fields {
		a := &Accessor{Field: f, coerce: coerce.For(f.Type)}
		byName[f.Name] = a
		ordered = append(ordered, a)
	}
	return byName, ordered
}

// Accessor returns the compiled accessor of a field. It freezes s first.
func (s *Schema) Accessor(name string) (*Accessor, error) {
	if err := s.Freeze(); err != nil {
		return nil, err
	}
	a, ok := s.accessors[name]
	if !ok {
		return nil, fmt.Errorf("schema %s: no field %q", s.name, name)
	}
	return a, nil
}

// Accessors returns the compiled accessors in effective field order. It
// freezes s first.
func (s *Schema) Accessors() ([]*Accessor, error) {
	if err := s.Freeze(); err != nil {
		return nil, err
	}
	out := make([]*Accessor, len(s.ordered))
	copy(out, s.ordered)
	return out, nil
}

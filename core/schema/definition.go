package schema

import (
	"fmt"

	"github.com/artpar/sparrow/core/coerce"
)

// HookLookup resolves a "call" directive to a registered hook.
type HookLookup func(name string) (Hook, bool)

// Build creates a schema from a definition under parent, which the caller
// resolves from def.Extends (nil for a root schema). Defaults are coerced
// through the field type so YAML text such as "2022-01-01" becomes a
// time.Time.
func Build(def Definition, parent *Schema, lookup HookLookup) (*Schema, error) {
	var opts []Option
	if parent != nil {
		opts = append(opts, Extends(parent))
	}
	if def.Scope != "" {
		opts = append(opts, WithScope(def.Scope))
	}
	s := New(def.Name, opts...)

	for _, spec := range def.Fields {
		typ := coerce.ParseKind(spec.Type)

		var fieldOpts []FieldOption
		if spec.PrimaryKey {
			fieldOpts = append(fieldOpts, PrimaryKey())
		}
		if spec.HasDefault() {
			var raw any
			if err := spec.Default.Decode(&raw); err != nil {
				return nil, fmt.Errorf("schema %s: field %v: decode default: %w", def.Name, spec.FieldNames(), err)
			}
			v, err := coerce.Coerce(typ, raw)
			if err != nil {
				return nil, fmt.Errorf("schema %s: field %v: default: %w", def.Name, spec.FieldNames(), err)
			}
			fieldOpts = append(fieldOpts, Default(v))
		}

		for _, name := range spec.FieldNames() {
			if err := s.Declare(name, typ, fieldOpts...); err != nil {
				return nil, err
			}
		}
	}

	before, err := buildHooks(def, PhaseBefore, def.BeforeInitialize, lookup)
	if err != nil {
		return nil, err
	}
	after, err := buildHooks(def, PhaseAfter, def.AfterInitialize, lookup)
	if err != nil {
		return nil, err
	}

	s.BeforeInitialize(before...)
	s.AfterInitialize(after...)

	return s, nil
}

func buildHooks(def Definition, phase Phase, specs []HookSpec, lookup HookLookup) ([]Hook, error) {
	hooks := make([]Hook, 0, len(specs))
	for i, spec := range specs {
		switch {
		case spec.Fill != nil:
			hooks = append(hooks, FillBlank(spec.Fill))
		case spec.Call != "":
			if lookup == nil {
				return nil, fmt.Errorf("schema %s: %s[%d]: function %q not registered", def.Name, phase, i, spec.Call)
			}
			h, ok := lookup(spec.Call)
			if !ok {
				return nil, fmt.Errorf("schema %s: %s[%d]: function %q not registered", def.Name, phase, i, spec.Call)
			}
			hooks = append(hooks, h)
		}
	}
	return hooks, nil
}

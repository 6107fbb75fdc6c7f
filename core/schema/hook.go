package schema

import (
	"sort"

	"github.com/artpar/sparrow/core/coerce"
)

// Phase names a construction lifecycle point.
type Phase string

const (
	PhaseBefore Phase = "before_initialize"
	PhaseAfter  Phase = "after_initialize"
)

// Record is the view of a partially or fully constructed entity that hooks
// operate on.
type Record interface {
	// Schema returns the record's schema.
	Schema() *Schema

	// Get returns the value of a field with the default applied.
	Get(name string) any

	// Set coerces and stores a value.
	Set(name string, value any) error
}

// Hook runs during construction. Returning ErrAbort (or an error wrapping it)
// aborts the construction.
type Hook func(r Record) error

// FillBlank returns a hook that sets each listed field whose current value is
// blank. Fields are filled in name order; names the schema does not declare
// are skipped.
func FillBlank(values map[string]any) Hook {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(r Record) error {
		for _, name := range names {
			if _, ok := r.Schema().Lookup(name); !ok {
				continue
			}
			if !coerce.IsBlank(r.Get(name)) {
				continue
			}
			if err := r.Set(name, values[name]); err != nil {
				return err
			}
		}
		return nil
	}
}

// AbortUnless returns a hook that aborts construction when pred is false.
func AbortUnless(reason string, pred func(r Record) bool) Hook {
	return func(r Record) error {
		if pred(r) {
			return nil
		}
		return Abortf("%s: %s", r.Schema().Name(), reason)
	}
}

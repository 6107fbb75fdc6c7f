package schema

// DefaultLabelKind is the label kind used when a query names none.
const DefaultLabelKind = "label"

// LabelQuery selects a human-readable text for a field.
type LabelQuery struct {
	// Kind is the namespace under the scope ("label", "hint", ...).
	Kind string

	// Scope overrides the schema's label scope path.
	Scope string

	// Vars are interpolated into the resolved text.
	Vars map[string]any
}

// KindOrDefault returns q.Kind, or DefaultLabelKind when empty.
func (q LabelQuery) KindOrDefault() string {
	if q.Kind == "" {
		return DefaultLabelKind
	}
	return q.Kind
}

// LabelResolver looks up human-readable labels for schema fields.
type LabelResolver interface {
	ResolveLabel(s *Schema, name string, q LabelQuery) (string, error)
}

// Package convention derives names and views from schema definitions.
// It applies the naming conventions used for label keys and produces the
// fully-resolved field listing used by describe and the formatters.
package convention

import (
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/artpar/sparrow/core/schema"
)

// BaseScope is the shared fallback scope for labels.
const BaseScope = "base"

// Scope returns the label scope path of a schema name: every namespace
// segment underscored, joined with dots.
//
//	Scope("SparrowTest::Normal") == "sparrow_test.normal"
func Scope(name string) string {
	parts := schema.SplitName(name)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, inflect.Underscore(p))
	}
	return strings.Join(out, ".")
}

// ScopeOf returns the schema's scope override, or the scope derived from its
// name.
func ScopeOf(s *schema.Schema) string {
	if scope := s.Scope(); scope != "" {
		return scope
	}
	return Scope(s.Name())
}

// LabelKeys returns the scoped key and the shared base key of a label:
//
//	<namespace>.<scope>.<kind>.<name>
//	<namespace>.base.<kind>.<name>
func LabelKeys(namespace, scope, kind, name string) (scoped, base string) {
	return joinKey(namespace, scope, kind, name), joinKey(namespace, BaseScope, kind, name)
}

func joinKey(parts ...string) string {
	nonEmpty := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ".")
}

// Derived is the resolved view of a schema.
type Derived struct {
	// Name is the schema name.
	Name string `json:"name" yaml:"name"`

	// Scope is the label scope path.
	Scope string `json:"scope" yaml:"scope"`

	// Lineage lists ancestor names root first, ending with Name.
	Lineage []string `json:"lineage" yaml:"lineage"`

	// PrimaryKey is the effective primary key, or "".
	PrimaryKey string `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`

	// Fields are the effective fields in order.
	Fields []DerivedField `json:"fields" yaml:"fields"`
}

// DerivedField is one effective field with its provenance.
type DerivedField struct {
	Name       string           `json:"name" yaml:"name"`
	Type       schema.FieldType `json:"type" yaml:"type"`
	Default    any              `json:"default,omitempty" yaml:"default,omitempty"`
	HasDefault bool             `json:"has_default,omitempty" yaml:"has_default,omitempty"`

	// PrimaryKey is set on the field named by Derived.PrimaryKey.
	PrimaryKey bool `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`

	// DeclaredBy names the schema whose definition is in effect.
	DeclaredBy string `json:"declared_by" yaml:"declared_by"`

	// Inherited is set when DeclaredBy is an ancestor.
	Inherited bool `json:"inherited,omitempty" yaml:"inherited,omitempty"`

	// Overrides is set when a later declaration replaced an earlier one.
	Overrides bool `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

// Derive resolves a schema into its Derived view.
func Derive(s *schema.Schema) (Derived, error) {
	lineage, err := s.Lineage()
	if err != nil {
		return Derived{}, err
	}
	fields, err := s.EffectiveFields()
	if err != nil {
		return Derived{}, err
	}

	d := Derived{
		Name:       s.Name(),
		Scope:      ScopeOf(s),
		Lineage:    make([]string, len(lineage)),
		PrimaryKey: s.PrimaryKey(),
		Fields:     make([]DerivedField, 0, len(fields)),
	}
	for i, sc := range lineage {
		d.Lineage[i] = sc.Name()
	}

	declaredBy, declarations := provenance(lineage)

	for _, f := range fields {
		d.Fields = append(d.Fields, DerivedField{
			Name:       f.Name,
			Type:       f.Type,
			Default:    f.DefaultValue(),
			HasDefault: f.HasDefault,
			PrimaryKey: f.Name == d.PrimaryKey,
			DeclaredBy: declaredBy[f.Name],
			Inherited:  declaredBy[f.Name] != s.Name(),
			Overrides:  declarations[f.Name] > 1,
		})
	}

	return d, nil
}

// provenance records, per field, the schema of its latest declaration and how
// many declarations the lineage holds.
func provenance(lineage []*schema.Schema) (map[string]string, map[string]int) {
	declaredBy := make(map[string]string)
	declarations := make(map[string]int)

	for _, sc := range lineage {
		for _, f := range sc.OwnFields() {
			declaredBy[f.Name] = sc.Name()
			declarations[f.Name]++
		}
	}
	return declaredBy, declarations
}

package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is a schema declared in YAML.
type Definition struct {
	// Name is the schema name (e.g. "normal", "SparrowTest::Normal").
	Name string `yaml:"schema"`

	// Extends names the parent schema.
	Extends string `yaml:"extends,omitempty"`

	// Scope overrides the label scope path.
	Scope string `yaml:"scope,omitempty"`

	// Description for documentation.
	Description string `yaml:"description,omitempty"`

	// Fields in declaration order.
	Fields []FieldSpec `yaml:"fields"`

	// BeforeInitialize hooks run before assignment.
	BeforeInitialize []HookSpec `yaml:"before_initialize,omitempty"`

	// AfterInitialize hooks run after assignment.
	AfterInitialize []HookSpec `yaml:"after_initialize,omitempty"`

	// Source is the file the definition was read from, if any.
	Source string `yaml:"-"`
}

// FieldSpec declares one field, or several fields of one type via Names.
type FieldSpec struct {
	Name       string     `yaml:"name,omitempty"`
	Names      []string   `yaml:"names,omitempty"`
	Type       string     `yaml:"type"`
	PrimaryKey bool       `yaml:"primary_key,omitempty"`
	Default    yaml.Node `yaml:"default,omitempty"`
}

// HasDefault reports whether a non-null default was given.
func (f FieldSpec) HasDefault() bool {
	return f.Default.Kind != 0 && f.Default.ShortTag() != "!!null"
}

// HookSpec is one hook directive. Exactly one directive must be set.
type HookSpec struct {
	// Call invokes a function registered under this name.
	Call string `yaml:"call,omitempty"`

	// Fill sets each listed field that is blank (see FillBlank).
	Fill map[string]any `yaml:"fill,omitempty"`
}

// FieldNames returns the declared field names, in order.
func (f FieldSpec) FieldNames() []string {
	if f.Name != "" {
		return []string{f.Name}
	}
	return f.Names
}

// ParseFile parses a schema definition from a YAML file.
func ParseFile(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read file %s: %w", path, err)
	}

	def, err := Parse(data)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	def.Source = path
	return def, nil
}

// Parse parses a schema definition from YAML bytes.
func Parse(data []byte) (Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("parse yaml: %w", err)
	}

	if err := Validate(def); err != nil {
		return Definition{}, fmt.Errorf("validate schema %q: %w", def.Name, err)
	}

	return def, nil
}

// ParseDir parses all schema definitions from a directory, including
// subdirectories, in lexical file order.
func ParseDir(dir string) ([]Definition, error) {
	var defs []Definition

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			sub, err := ParseDir(path)
			if err != nil {
				return nil, err
			}
			defs = append(defs, sub...)
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		def, err := ParseFile(path)
		if err != nil {
			return nil, err
		}

		defs = append(defs, def)
	}

	return defs, nil
}

// Validate validates a schema definition.
func Validate(def Definition) error {
	var errs []string

	if def.Name == "" {
		errs = append(errs, "schema name is required")
	} else if !isValidSchemaName(def.Name) {
		errs = append(errs, fmt.Sprintf("schema name %q is not a valid name", def.Name))
	}

	if def.Extends != "" && !isValidSchemaName(def.Extends) {
		errs = append(errs, fmt.Sprintf("extends %q is not a valid name", def.Extends))
	}

	for i, spec := range def.Fields {
		if err := validateFieldSpec(i, spec); err != nil {
			errs = append(errs, err.Error())
		}
	}

	for i, h := range def.BeforeInitialize {
		if err := validateHookSpec(PhaseBefore, i, h); err != nil {
			errs = append(errs, err.Error())
		}
	}
	for i, h := range def.AfterInitialize {
		if err := validateHookSpec(PhaseAfter, i, h); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// validateFieldSpec validates a single field entry.
func validateFieldSpec(i int, spec FieldSpec) error {
	if spec.Name != "" && len(spec.Names) > 0 {
		return fmt.Errorf("fields[%d]: use either name or names, not both", i)
	}

	names := spec.FieldNames()
	if len(names) == 0 {
		return fmt.Errorf("fields[%d]: name is required", i)
	}
	for _, name := range names {
		if !isValidIdentifier(name) {
			return fmt.Errorf("fields[%d]: field name %q is not a valid identifier", i, name)
		}
	}

	if spec.Type == "" {
		return fmt.Errorf("field %q: type is required", names[0])
	}

	if spec.PrimaryKey && len(names) > 1 {
		return fmt.Errorf("fields[%d]: primary_key needs a single name", i)
	}

	return nil
}

// validateHookSpec validates a single hook directive.
func validateHookSpec(phase Phase, i int, h HookSpec) error {
	set := 0
	if h.Call != "" {
		set++
	}
	if h.Fill != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("%s[%d]: exactly one of call or fill is required", phase, i)
	}
	return nil
}

// isValidSchemaName accepts identifiers joined by "::", "/" or ".".
func isValidSchemaName(name string) bool {
	for _, part := range SplitName(name) {
		if !isValidIdentifier(part) {
			return false
		}
	}
	return name != ""
}

// SplitName splits a namespaced schema name on "::", "/" and ".".
func SplitName(name string) []string {
	name = strings.ReplaceAll(name, "::", "/")
	name = strings.ReplaceAll(name, ".", "/")
	return strings.Split(name, "/")
}

package schema

import (
	"reflect"

	"github.com/artpar/sparrow/core/coerce"
)

// DefaultPrimaryKeyName is the field name inferred as primary key when a
// lineage declares none explicitly.
const DefaultPrimaryKeyName = "id"

// FieldType is the declared type tag of a field.
type FieldType = coerce.Kind

const (
	FieldTypeInteger  FieldType = coerce.Integer
	FieldTypeFloat    FieldType = coerce.Float
	FieldTypeDateTime FieldType = coerce.DateTime
	FieldTypeDate     FieldType = coerce.Date
	FieldTypeTime     FieldType = coerce.Time
	FieldTypeArray    FieldType = coerce.Array
	FieldTypeObject   FieldType = coerce.Object
	FieldTypeBoolean  FieldType = coerce.Boolean
	FieldTypeString   FieldType = coerce.String
	FieldTypeOpaque   FieldType = coerce.Opaque
	FieldTypeUUID     FieldType = coerce.UUID
	FieldTypeDuration FieldType = coerce.Duration
)

// Field is one declared attribute.
type Field struct {
	// Name is unique within the declaring schema's effective fields.
	Name string `json:"name" yaml:"name"`

	// Type selects the coercion applied on assignment.
	Type FieldType `json:"type" yaml:"type"`

	// Default is returned by the getter while the stored value is nil.
	Default any `json:"default,omitempty" yaml:"default,omitempty"`

	// HasDefault distinguishes a nil default from no default.
	HasDefault bool `json:"has_default,omitempty" yaml:"has_default,omitempty"`

	// PrimaryKey is set when the field was declared with PrimaryKey().
	PrimaryKey bool `json:"primary_key,omitempty" yaml:"primary_key,omitempty"`
}

// FieldOption configures a field declaration.
type FieldOption func(*Field)

// PrimaryKey marks the field as the schema's primary key.
func PrimaryKey() FieldOption {
	return func(f *Field) {
		f.PrimaryKey = true
	}
}

// Default sets the value returned while the field holds nothing.
func Default(v any) FieldOption {
	return func(f *Field) {
		f.Default = v
		f.HasDefault = true
	}
}

// DefaultValue returns the field's default. Slices and maps are copied so
// callers cannot change the default shared by every entity.
func (f Field) DefaultValue() any {
	if !f.HasDefault || f.Default == nil {
		return nil
	}

	rv := reflect.ValueOf(f.Default)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return f.Default
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	case reflect.Map:
		if rv.IsNil() {
			return f.Default
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		return out.Interface()
	default:
		return f.Default
	}
}

// isValidIdentifier checks if a string is a valid identifier.
func isValidIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, c := range s {
		if i == 0 {
			if !isLetter(c) && c != '_' {
				return false
			}
		} else {
			if !isLetter(c) && !isDigit(c) && c != '_' {
				return false
			}
		}
	}

	return true
}

func isLetter(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

package coerce

import "strings"

// Kind is the declared type tag of a field.
type Kind string

const (
	Integer  Kind = "integer"
	Float    Kind = "float"
	DateTime Kind = "datetime"
	Date     Kind = "date"
	Time     Kind = "time"
	Array    Kind = "array"
	Object   Kind = "object"
	Boolean  Kind = "boolean"
	String   Kind = "string"
	Opaque   Kind = "opaque"
	UUID     Kind = "uuid"
	Duration Kind = "duration"
)

// aliases maps accepted spellings to their canonical kind.
var aliases = map[string]Kind{
	"integer":   Integer,
	"int":       Integer,
	"int64":     Integer,
	"float":     Float,
	"float64":   Float,
	"double":    Float,
	"number":    Float,
	"datetime":  DateTime,
	"timestamp": DateTime,
	"date":      Date,
	"time":      Time,
	"array":     Array,
	"list":      Array,
	"object":    Object,
	"hash":      Object,
	"map":       Object,
	"json":      Object,
	"boolean":   Boolean,
	"bool":      Boolean,
	"string":    String,
	"text":      String,
	"opaque":    Opaque,
	"any":       Opaque,
	"uuid":      UUID,
	"duration":  Duration,
}

// ParseKind resolves a type tag. Unrecognized tags resolve to Opaque.
func ParseKind(tag string) Kind {
	if k, ok := aliases[strings.ToLower(strings.TrimSpace(tag))]; ok {
		return k
	}
	return Opaque
}

// Known reports whether k is one of the canonical kinds.
func (k Kind) Known() bool {
	_, ok := table[k]
	return ok
}

// IsCollection reports whether k holds structured (JSON-decodable) values.
func (k Kind) IsCollection() bool {
	return k == Array || k == Object
}

// IsTemporal reports whether k holds a time.Time.
func (k Kind) IsTemporal() bool {
	return k == DateTime || k == Date || k == Time
}

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

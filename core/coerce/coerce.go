package coerce

import (
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"
)

// Func converts a raw value to the canonical representation of one kind.
// A nil result means "absent".
type Func func(raw any) (any, error)

var table = map[Kind]Func{
	Integer:  toInteger,
	Float:    toFloat,
	DateTime: toTime,
	Time:     toTime,
	Date:     toDate,
	Array:    toArray,
	Object:   toObject,
	Boolean:  toBoolean,
	String:   passthrough,
	Opaque:   passthrough,
	UUID:     toUUID,
	Duration: toDuration,
}

// For returns the coercion function of a kind. Unknown kinds pass values
// through unchanged.
func For(kind Kind) Func {
	if fn, ok := table[kind]; ok {
		return fn
	}
	return passthrough
}

// Coerce converts raw to the canonical representation of kind.
func Coerce(kind Kind, raw any) (any, error) {
	return For(kind)(raw)
}

func passthrough(raw any) (any, error) {
	return raw, nil
}

func toTime(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return *v, nil
	}

	s, ok := asText(raw)
	if !ok {
		return nil, nil
	}
	t, err := cast.ToTimeE(strings.TrimSpace(s))
	if err != nil {
		return nil, nil
	}
	return t, nil
}

func toDate(raw any) (any, error) {
	v, _ := toTime(raw)
	t, ok := v.(time.Time)
	if !ok {
		return nil, nil
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()), nil
}

func toBoolean(raw any) (any, error) {
	return !IsBlank(raw), nil
}

func toUUID(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case uuid.UUID:
		return v, nil
	case [16]byte:
		return uuid.UUID(v), nil
	case []byte:
		if len(v) == 16 {
			id, err := uuid.FromBytes(v)
			if err != nil {
				return nil, nil
			}
			return id, nil
		}
	}

	s, ok := asText(raw)
	if !ok {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return nil, nil
	}
	return id, nil
}

func toDuration(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if s, ok := asText(raw); ok {
		raw = strings.TrimSpace(s)
	}
	d, err := cast.ToDurationE(raw)
	if err != nil {
		return nil, nil
	}
	return d, nil
}

// IsBlank reports whether v counts as absent: nil, false, a string of
// whitespace, an empty slice/map/array, or a nil pointer. Numbers, including
// zero, are never blank.
func IsBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case bool:
		return !x
	case string:
		return strings.TrimSpace(x) == ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return !rv.Bool()
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return IsBlank(rv.Elem().Interface())
	default:
		return false
	}
}

// asText returns the textual form of strings, named string types and byte
// slices.
func asText(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

package coerce

import (
	"encoding/json"
	"reflect"
)

func toArray(raw any) (any, error) {
	return toCollection(Array, raw, reflect.Slice, reflect.Array)
}

func toObject(raw any) (any, error) {
	return toCollection(Object, raw, reflect.Map)
}

// toCollection passes through values whose reflect kind matches, decodes
// text as JSON and drops everything else.
func toCollection(kind Kind, raw any, shapes ...reflect.Kind) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if s, ok := asText(raw); ok {
		return decode(kind, s)
	}

	rv := reflect.ValueOf(raw)
	for _, shape := range shapes {
		if rv.Kind() != shape {
			continue
		}
		// A nil slice or map is absent.
		if shape != reflect.Array && rv.IsNil() {
			return nil, nil
		}
		return raw, nil
	}
	return nil, nil
}

// decode parses text as JSON. A document of the other shape is dropped.
func decode(kind Kind, text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, &DecodeError{Kind: kind, Input: text, Err: err}
	}
	switch v.(type) {
	case []any:
		if kind == Array {
			return v, nil
		}
	case map[string]any:
		if kind == Object {
			return v, nil
		}
	}
	return nil, nil
}

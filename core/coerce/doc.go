/*
Package coerce is the type coercion table behind entity fields.

Every field declares a Kind. When a value is assigned to the field, the raw
input (a string from a form, JSON text, a number decoded from YAML, a time.Time
from Go code) is converted to the canonical representation of that Kind:

	integer   int64          "42", 42.9, json.Number("42"), "12abc" -> 12
	float     float64        "3.5kg" -> 3.5, ".5" -> 0.5
	datetime  time.Time      "1999-12-31", time.Time
	date      time.Time      truncated to midnight
	time      time.Time
	array     []any          `["a","b"]`, []string{"a"}
	object    map[string]any `{"a":1}`, map[string]int{}
	boolean   bool           presence: nil, false, "", "  ", [] -> false
	string    unchanged
	opaque    unchanged
	uuid      uuid.UUID
	duration  time.Duration  "1h30m", 1500 (nanoseconds)

Malformed scalar input never fails: it resolves to nil so the field's default
can take over. Malformed structured input (array/object text that is not
valid JSON) returns a *DecodeError.
*/
package coerce

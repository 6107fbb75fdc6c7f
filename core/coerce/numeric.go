package coerce

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?`)
)

func toInteger(raw any) (any, error) {
	if s, ok := asText(raw); ok {
		return ParseLeadingInt(s), nil
	}
	n, err := cast.ToInt64E(raw)
	if err != nil {
		return nil, nil
	}
	return n, nil
}

func toFloat(raw any) (any, error) {
	if s, ok := asText(raw); ok {
		return ParseLeadingFloat(s), nil
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil, nil
	}
	return f, nil
}

// ParseLeadingInt reads the integer at the start of s, ignoring leading
// whitespace and any trailing text. It returns 0 when s does not start with a
// number and saturates on overflow.
func ParseLeadingInt(s string) int64 {
	m := leadingInt.FindString(strings.TrimLeft(s, " \t\r\n\f\v"))
	if m == "" {
		return 0
	}
	// ParseInt returns the clamped value together with ErrRange.
	n, _ := strconv.ParseInt(m, 10, 64)
	return n
}

// ParseLeadingFloat reads the decimal number at the start of s, with the same
// tolerance as ParseLeadingInt.
func ParseLeadingFloat(s string) float64 {
	m := leadingFloat.FindString(strings.TrimLeft(s, " \t\r\n\f\v"))
	if m == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(m, 64)
	return f
}

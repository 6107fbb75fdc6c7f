package coerce

import (
	"errors"
	"fmt"
)

// ErrDecode matches every *DecodeError via errors.Is.
var ErrDecode = errors.New("coerce: invalid structured input")

// DecodeError is returned when text assigned to an array or object field is
// not valid JSON.
type DecodeError struct {
	Kind  Kind
	Input string
	Err   error
}

// Error returns the error string.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("coerce: cannot decode %s from %q: %v", e.Kind, abbreviate(e.Input, 64), e.Err)
}

// Unwrap returns the underlying JSON error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// IsDecodeError returns true if err is or wraps a *DecodeError.
func IsDecodeError(err error) bool {
	if err == nil {
		return false
	}
	var e *DecodeError
	return errors.As(err, &e)
}

func abbreviate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

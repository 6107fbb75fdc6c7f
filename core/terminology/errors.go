package terminology

import (
	"errors"
	"fmt"
)

// ErrMissingLabel matches every *MissingLabelError via errors.Is.
var ErrMissingLabel = errors.New("terminology: translation missing")

// MissingLabelError is returned when no key of a lookup resolves.
type MissingLabelError struct {
	// Locale is the catalog locale at lookup time.
	Locale string

	// Key is the last key tried.
	Key string
}

// Error returns the error string.
func (e *MissingLabelError) Error() string {
	return fmt.Sprintf("translation missing: %s.%s", e.Locale, e.Key)
}

// Is reports whether target is ErrMissingLabel.
func (e *MissingLabelError) Is(target error) bool {
	return target == ErrMissingLabel
}

// IsMissingLabel returns true if err is or wraps a *MissingLabelError.
func IsMissingLabel(err error) bool {
	return errors.Is(err, ErrMissingLabel)
}

package entity

import (
	"errors"
	"fmt"

	"github.com/artpar/sparrow/core/schema"
)

var (
	// ErrConstructionAborted matches every *ConstructionAbortedError via errors.Is.
	ErrConstructionAborted = errors.New("entity: construction aborted")

	// ErrUnknownAttribute matches every *UnknownAttributeError via errors.Is.
	ErrUnknownAttribute = errors.New("entity: unknown attribute")

	// ErrNoLabelResolver is returned by Label when no resolver is configured.
	ErrNoLabelResolver = errors.New("entity: no label resolver")
)

// ConstructionAbortedError is returned when a hook aborts construction.
type ConstructionAbortedError struct {
	Schema string
	Phase  schema.Phase
	Err    error
}

// Error returns the error string.
func (e *ConstructionAbortedError) Error() string {
	return fmt.Sprintf("construct %s: aborted in %s: %v", e.Schema, e.Phase, e.Err)
}

// Is reports whether target is ErrConstructionAborted.
func (e *ConstructionAbortedError) Is(target error) bool {
	return target == ErrConstructionAborted
}

// Unwrap returns the hook's error.
func (e *ConstructionAbortedError) Unwrap() error {
	return e.Err
}

// IsConstructionAborted returns true if err is or wraps a
// *ConstructionAbortedError.
func IsConstructionAborted(err error) bool {
	return errors.Is(err, ErrConstructionAborted)
}

// UnknownAttributeError is returned when setting a name the schema does not
// declare.
type UnknownAttributeError struct {
	Schema string
	Name   string
}

// Error returns the error string.
func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("entity %s: unknown attribute %q", e.Schema, e.Name)
}

// Is reports whether target is ErrUnknownAttribute.
func (e *UnknownAttributeError) Is(target error) bool {
	return target == ErrUnknownAttribute
}

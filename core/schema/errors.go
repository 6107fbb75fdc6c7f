package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaCycle matches every *SchemaCycleError via errors.Is.
	ErrSchemaCycle = errors.New("schema: ancestor cycle")

	// ErrFrozen is returned when a frozen schema is modified.
	ErrFrozen = errors.New("schema: frozen")

	// ErrAbort is returned (or wrapped) by a hook to abort construction.
	ErrAbort = errors.New("schema: construction aborted")
)

// SchemaCycleError is returned when a schema is its own ancestor.
type SchemaCycleError struct {
	// Schema is the schema whose lineage was being resolved.
	Schema string

	// Chain lists the schemas walked, ending with the repeated one.
	Chain []string
}

// Error returns the error string.
func (e *SchemaCycleError) Error() string {
	return fmt.Sprintf("schema: %s is its own ancestor (%s)", e.Schema, strings.Join(e.Chain, " -> "))
}

// Is reports whether target is ErrSchemaCycle.
func (e *SchemaCycleError) Is(target error) bool {
	return target == ErrSchemaCycle
}

func newCycleError(s *Schema, walked []*Schema, repeated *Schema) *SchemaCycleError {
	chain := make([]string, 0, len(walked)+1)
	for _, sc := range walked {
		chain = append(chain, sc.name)
	}
	chain = append(chain, repeated.name)
	return &SchemaCycleError{Schema: s.name, Chain: chain}
}

// IsSchemaCycle returns true if err is or wraps a *SchemaCycleError.
func IsSchemaCycle(err error) bool {
	return errors.Is(err, ErrSchemaCycle)
}

// DeclarationError describes a rejected field or hook declaration.
type DeclarationError struct {
	Schema string
	Field  string
	Reason string
	Err    error
}

// Error returns the error string.
func (e *DeclarationError) Error() string {
	var b strings.Builder
	b.WriteString("schema ")
	b.WriteString(e.Schema)
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *DeclarationError) Unwrap() error {
	return e.Err
}

// Abortf returns a formatted error wrapping ErrAbort.
func Abortf(format string, a ...any) error {
	return fmt.Errorf(format+": %w", append(a, ErrAbort)...)
}

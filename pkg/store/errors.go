package store

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned by KV.Get for a key that was never written.
	ErrKeyNotFound = errors.New("key not found")
	// ErrVersionConflict is returned when a write's expected version does not
	// match the stored one: another writer got there first.
	ErrVersionConflict = errors.New("version conflict")

	ErrNotFound          = errors.New("record not found")
	ErrDuplicateID       = errors.New("duplicate record id")
	ErrIDChanged         = errors.New("mutator changed the record id")
	ErrInvalid           = errors.New("invalid record")
	ErrUnsupportedSchema = errors.New("stored schema version is newer than this build supports")
)

// ValidationError names the offending field. It matches ErrInvalid with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

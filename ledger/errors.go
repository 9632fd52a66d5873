package ledger

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors below match them through errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrState      = errors.New("invalid state")
)

// ValidationError reports bad input; nothing has been written when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError is returned by stores and the ledger when a referenced record is absent.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Entity, e.ID) }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StateError rejects an operation that the record's lifecycle state does not allow.
type StateError struct {
	Entity string
	ID     string
	Status string
	Op     string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s %s %q in status %s", e.Op, e.Entity, e.ID, e.Status)
}

func (e *StateError) Is(target error) bool { return target == ErrState }

func invalid(field, reason string) error { return &ValidationError{Field: field, Reason: reason} }

package domain

import (
	"errors"
	"fmt"
)

// ErrMemberNotFound is returned when an id-scoped member operation finds no row.
var ErrMemberNotFound = errors.New("member not found")

// ConstraintError reports a row the storage layer refused, e.g. a duplicate email
// or a workout session pointing at a missing member. Message is the raw storage text.
type ConstraintError struct {
	Message string
	Err     error
}

func (e *ConstraintError) Error() string {
	return e.Message
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// ConnectionError reports that the storage layer could not be reached.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("storage connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ValidationError describes a request field that is missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

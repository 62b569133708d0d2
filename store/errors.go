package store

import (
	"errors"
	"fmt"

	"wardwatch-be/models"
)

var (
	// ErrNotFound is returned when an id or ward number does not resolve to
	// an existing, active record.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateWard is returned when creating a ward whose number is
	// already taken by an active ward.
	ErrDuplicateWard = errors.New("ward number already exists")

	// ErrDuplicateEmail is returned when registering an already-known email.
	ErrDuplicateEmail = errors.New("email already registered")
)

// ValidationError carries every violated field constraint from one input, not
// just the first.
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

func validationError(fields []models.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

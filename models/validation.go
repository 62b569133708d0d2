package models

import "fmt"

// FieldError describes a single violated constraint on an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func fieldErrorf(field, format string, args ...interface{}) FieldError {
	return FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

package domain

import "fmt"

// ValidationError reports malformed or out-of-range input. It is raised
// before any computation runs and surfaces to the caller with the field
// that failed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for a field
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

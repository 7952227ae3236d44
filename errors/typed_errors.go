// api/errors/typed_errors.go
package errors

import "fmt"

// ValidationError reports a rejected input field. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// DataIntegrityError is returned when a user references a role the lookup cannot resolve.
type DataIntegrityError struct {
	UserID string
	RoleID string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity violation: user %s references missing role %s", e.UserID, e.RoleID)
}

func (e *DataIntegrityError) Is(target error) bool {
	return target == ErrDataIntegrity
}

// api/errors/common_errors.go
package errors

import "errors"

var (
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrInternalServer    = errors.New("internal server error")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidPagination = errors.New("invalid pagination parameters")
	ErrLockTimeout       = errors.New("timed out waiting for entity lock")
)

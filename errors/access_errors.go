// api/errors/access_errors.go
package errors

import "errors"

var (
	ErrRoleNotFound    = errors.New("role not found")
	ErrRoleInUse       = errors.New("role is still assigned to users")
	ErrInvalidRoleData = errors.New("invalid role data")

	ErrUnknownPermission    = errors.New("unknown permission key")
	ErrInvalidScope         = errors.New("invalid permission scope")
	ErrAssignmentNotFound   = errors.New("role assignment not found")
	ErrDataIntegrity        = errors.New("data integrity violation")
	ErrDuplicateName        = errors.New("name already exists")
	ErrValidation           = errors.New("validation failed")
	ErrInvalidAccessRequest = errors.New("invalid access request")
)

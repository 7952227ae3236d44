// api/errors/user_errors.go
package errors

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidUserData = errors.New("invalid user data")

	ErrTeamNotFound    = errors.New("team not found")
	ErrTeamInUse       = errors.New("team is still referenced by users")
	ErrInvalidTeamData = errors.New("invalid team data")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user is inactive")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// api/util/http_util.go
package util

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
)

const (
	actorContextKey   = "actor"
	tokenIDContextKey = "tokenID"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", code),
	}
	if code >= http.StatusInternalServerError {
		logger.Error(message, fields...)
	} else {
		logger.Warn(message, fields...)
	}

	body := gin.H{"error": message}
	if err != nil && code < http.StatusInternalServerError {
		body["message"] = err.Error()
	}
	c.AbortWithStatusJSON(code, body)
}

// RespondServiceError maps a service error onto its HTTP status.
func RespondServiceError(c *gin.Context, message string, err error) {
	RespondWithError(c, StatusForError(err), message, err)
}

func StatusForError(err error) int {
	switch {
	case errors.Is(err, ta_errors.ErrValidation),
		errors.Is(err, ta_errors.ErrInvalidRoleData),
		errors.Is(err, ta_errors.ErrInvalidUserData),
		errors.Is(err, ta_errors.ErrInvalidTeamData),
		errors.Is(err, ta_errors.ErrInvalidPagination),
		errors.Is(err, ta_errors.ErrInvalidAccessRequest):
		return http.StatusBadRequest
	case errors.Is(err, ta_errors.ErrUnauthorized),
		errors.Is(err, ta_errors.ErrInvalidCredentials),
		errors.Is(err, ta_errors.ErrTokenRevoked):
		return http.StatusUnauthorized
	case errors.Is(err, ta_errors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ta_errors.ErrRoleNotFound),
		errors.Is(err, ta_errors.ErrUserNotFound),
		errors.Is(err, ta_errors.ErrTeamNotFound),
		errors.Is(err, ta_errors.ErrAssignmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ta_errors.ErrDuplicateName),
		errors.Is(err, ta_errors.ErrRoleInUse),
		errors.Is(err, ta_errors.ErrTeamInUse):
		return http.StatusConflict
	case errors.Is(err, ta_errors.ErrLockTimeout):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func SetActor(c *gin.Context, actor model.Actor, tokenID string) {
	c.Set(actorContextKey, actor)
	c.Set(tokenIDContextKey, tokenID)
}

// GetActorFromContext returns the identity the auth middleware stored for this request.
func GetActorFromContext(c *gin.Context) (model.Actor, bool) {
	v, exists := c.Get(actorContextKey)
	if !exists {
		return model.Actor{}, false
	}
	actor, ok := v.(model.Actor)
	return actor, ok
}

func GetTokenIDFromContext(c *gin.Context) string {
	return c.GetString(tokenIDContextKey)
}

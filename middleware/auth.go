// api/middleware/auth.go

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	"github.com/dev-mohitbeniwal/teamaccess/api/service"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
)

// BearerToken returns the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// Authenticate verifies the bearer token and stores the caller as the request actor.
func Authenticate(auth service.IAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			logger.Warn("No Authorization token provided", zap.String("path", c.Request.URL.Path))
			util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", ta_errors.ErrUnauthorized)
			return
		}

		claims, err := auth.ParseToken(c.Request.Context(), token)
		if err != nil {
			code := http.StatusUnauthorized
			if !errors.Is(err, ta_errors.ErrUnauthorized) && !errors.Is(err, ta_errors.ErrTokenRevoked) {
				code = http.StatusInternalServerError
			}
			util.RespondWithError(c, code, "Unauthorized", err)
			return
		}

		util.SetActor(c, claims.Actor(), claims.ID)
		logger.Debug("Request authenticated", zap.String("userID", claims.Subject))
		c.Next()
	}
}

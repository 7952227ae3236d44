// api/middleware/authorize.go

package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	pdp_model "github.com/dev-mohitbeniwal/teamaccess/api/pdp/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/service"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
)

const decisionContextKey = "accessDecision"

// ResourceResolver describes the resource a request acts on.
type ResourceResolver func(c *gin.Context) (pdp_model.ResourceContext, error)

// NoResource is for routes that act on no particular team or owner, so only global
// grants can satisfy them.
func NoResource(*gin.Context) (pdp_model.ResourceContext, error) {
	return pdp_model.ResourceContext{}, nil
}

// TeamFromParam reads the resource's team id from a path parameter.
func TeamFromParam(name string) ResourceResolver {
	return func(c *gin.Context) (pdp_model.ResourceContext, error) {
		id := c.Param(name)
		return pdp_model.ResourceContext{TeamID: &id}, nil
	}
}

type Authorizer struct {
	access service.IAccessService
}

func NewAuthorizer(access service.IAccessService) *Authorizer {
	return &Authorizer{access: access}
}

// RequirePermission lets the request through only when the engine allows the actor
// permission on the resolved resource.
func (a *Authorizer) RequirePermission(permission string, resource ResourceResolver) gin.HandlerFunc {
	if resource == nil {
		resource = NoResource
	}
	return func(c *gin.Context) {
		actor, ok := util.GetActorFromContext(c)
		if !ok {
			util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", ta_errors.ErrUnauthorized)
			return
		}

		res, err := resource(c)
		if err != nil {
			util.RespondServiceError(c, "Failed to resolve resource", err)
			return
		}

		decision, err := a.access.Check(c.Request.Context(), pdp_model.AccessRequest{
			UserID:     actor.ID,
			Permission: permission,
			Resource:   res,
		})
		switch {
		case errors.Is(err, ta_errors.ErrUserNotFound):
			// the token outlived its user
			util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", ta_errors.ErrUnauthorized)
			return
		case errors.Is(err, ta_errors.ErrDataIntegrity):
			util.RespondWithError(c, http.StatusInternalServerError, "Access check failed", err)
			return
		case err != nil:
			util.RespondServiceError(c, "Access check failed", err)
			return
		}

		if !decision.Allowed() {
			logger.Warn("Access denied",
				zap.String("userID", actor.ID),
				zap.String("permission", permission),
				zap.String("reason", decision.Reason),
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":      "Forbidden",
				"permission": permission,
				"reason":     decision.Reason,
			})
			return
		}

		c.Set(decisionContextKey, decision)
		c.Next()
	}
}

// DecisionFromContext returns the allow decision RequirePermission stored.
func DecisionFromContext(c *gin.Context) (*pdp_model.AccessDecision, bool) {
	v, ok := c.Get(decisionContextKey)
	if !ok {
		return nil, false
	}
	d, ok := v.(*pdp_model.AccessDecision)
	return d, ok
}

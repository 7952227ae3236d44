// api/controller/access_controller.go
package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/teamaccess/api/catalog"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	logger "github.com/dev-mohitbeniwal/teamaccess/api/logging"
	pdp_model "github.com/dev-mohitbeniwal/teamaccess/api/pdp/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/service"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
	helper_util "github.com/dev-mohitbeniwal/teamaccess/api/util/helper"
)

type AccessController struct {
	accessService service.IAccessService
}

func NewAccessController(accessService service.IAccessService) *AccessController {
	return &AccessController{accessService: accessService}
}

func (ac *AccessController) RegisterRoutes(r *gin.RouterGroup) {
	access := r.Group("/access")
	{
		access.POST("/check", ac.Check)
		access.GET("/me", ac.Me)
	}
}

// Check evaluates an access request. Callers may check themselves freely; checking
// another user requires user.read on that user.
func (ac *AccessController) Check(c *gin.Context) {
	var req pdp_model.AccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid access request", err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if req.UserID != actor.ID {
		target := req.UserID
		gate, err := ac.accessService.Check(c.Request.Context(), pdp_model.AccessRequest{
			UserID:     actor.ID,
			Permission: catalog.UserRead,
			Resource:   pdp_model.ResourceContext{OwnerID: &target},
		})
		if err != nil {
			util.RespondServiceError(c, "Access check failed", err)
			return
		}
		if !gate.Allowed() {
			util.RespondWithError(c, http.StatusForbidden, "Forbidden", ta_errors.ErrForbidden)
			return
		}
	}

	decision, err := ac.accessService.Check(c.Request.Context(), req)
	if err != nil {
		util.RespondServiceError(c, "Access check failed", err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// Me lists the caller's effective permissions, at ?asOf= when given.
func (ac *AccessController) Me(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	asOf, err := helper_util.ParseNullableTime(c.Query("asOf"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid asOf", ta_errors.NewValidationError("asOf", err.Error()))
		return
	}

	var at time.Time
	if asOf != nil {
		at = *asOf
	}
	perms, err := ac.accessService.EffectivePermissions(c.Request.Context(), actor.ID, at)
	if err != nil {
		logger.Error("Failed to list effective permissions", zap.Error(err), zap.String("userID", actor.ID))
		util.RespondServiceError(c, "Failed to list permissions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"userId": actor.ID, "permissions": perms})
}

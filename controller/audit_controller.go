// api/controller/audit_controller.go
package controller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/teamaccess/api/audit"
	"github.com/dev-mohitbeniwal/teamaccess/api/catalog"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	"github.com/dev-mohitbeniwal/teamaccess/api/middleware"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
	helper_util "github.com/dev-mohitbeniwal/teamaccess/api/util/helper"
)

type AuditController struct {
	auditService audit.Service
}

func NewAuditController(auditService audit.Service) *AuditController {
	return &AuditController{auditService: auditService}
}

func (ac *AuditController) RegisterRoutes(r *gin.RouterGroup, guard Guard) {
	r.GET("/auditlogs", guard(catalog.AuditRead, middleware.NoResource), ac.QueryLogs)
}

// QueryLogs lists audit entries newest first, filtered by ?action=&entity=&actor=&from=&to=.
func (ac *AuditController) QueryLogs(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	filter := audit.Filter{
		Action:     audit.Action(strings.ToUpper(c.Query("action"))),
		Entity:     audit.Entity(c.Query("entity")),
		ActorEmail: strings.ToLower(c.Query("actor")),
		Limit:      limit,
		Offset:     offset,
	}
	if filter.From, err = helper_util.ParseNullableTime(c.Query("from")); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid from", ta_errors.NewValidationError("from", err.Error()))
		return
	}
	if filter.To, err = helper_util.ParseNullableTime(c.Query("to")); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid to", ta_errors.NewValidationError("to", err.Error()))
		return
	}

	logs, err := ac.auditService.QueryLogs(c.Request.Context(), filter)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query audit logs", err)
		return
	}
	if logs == nil {
		logs = []audit.AuditLog{}
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

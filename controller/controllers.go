// api/controller/controllers.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	"github.com/dev-mohitbeniwal/teamaccess/api/middleware"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/service"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
)

// Guard builds the middleware that checks permission on the resolved resource before a
// handler runs.
type Guard func(permission string, resource middleware.ResourceResolver) gin.HandlerFunc

type Controllers struct {
	Auth    *AuthController
	Role    *RoleController
	User    *UserController
	Team    *TeamController
	Access  *AccessController
	Audit   *AuditController
	Catalog *CatalogController
}

func InitializeControllers(services *service.Services) *Controllers {
	return &Controllers{
		Auth:    NewAuthController(services.Auth),
		Role:    NewRoleController(services.Role),
		User:    NewUserController(services.User),
		Team:    NewTeamController(services.Team),
		Access:  NewAccessController(services.Access),
		Audit:   NewAuditController(services.Audit),
		Catalog: NewCatalogController(),
	}
}

// requireActor returns the authenticated actor, or writes 401 and reports false.
func requireActor(c *gin.Context) (model.Actor, bool) {
	actor, ok := util.GetActorFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", ta_errors.ErrUnauthorized)
	}
	return actor, ok
}

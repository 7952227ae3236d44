// api/controller/role_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/teamaccess/api/catalog"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	"github.com/dev-mohitbeniwal/teamaccess/api/middleware"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/service"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
	helper_util "github.com/dev-mohitbeniwal/teamaccess/api/util/helper"
)

type RoleController struct {
	roleService service.IRoleService
}

func NewRoleController(roleService service.IRoleService) *RoleController {
	return &RoleController{
		roleService: roleService,
	}
}

// RegisterRoutes registers the API routes for roles
func (rc *RoleController) RegisterRoutes(r *gin.RouterGroup, guard Guard) {
	roles := r.Group("/roles")
	{
		roles.GET("/public", rc.ListPublicRoles)
		roles.POST("", guard(catalog.RoleCreate, middleware.NoResource), rc.CreateRole)
		roles.GET("", guard(catalog.RoleRead, middleware.NoResource), rc.ListRoles)
		roles.GET("/:id", guard(catalog.RoleRead, middleware.NoResource), rc.GetRole)
		roles.PATCH("/:id", guard(catalog.RoleUpdate, middleware.NoResource), rc.UpdateRole)
		roles.DELETE("/:id", guard(catalog.RoleDelete, middleware.NoResource), rc.DeleteRole)
		roles.POST("/:id/deactivate", guard(catalog.RoleUpdate, middleware.NoResource), rc.DeactivateRole)
		roles.PUT("/:id/permissions", guard(catalog.RoleUpdate, middleware.NoResource), rc.ReplaceRolePermissions)
		roles.PUT("/:id/permissions/:key", guard(catalog.RoleUpdate, middleware.NoResource), rc.SetRolePermission)
		roles.DELETE("/:id/permissions/:key", guard(catalog.RoleUpdate, middleware.NoResource), rc.DeleteRolePermission)
	}
}

// CreateRole endpoint
func (rc *RoleController) CreateRole(c *gin.Context) {
	var input model.RoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role data", err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	createdRole, err := rc.roleService.CreateRole(c.Request.Context(), actor, input)
	if err != nil {
		util.RespondServiceError(c, "Failed to create role", err)
		return
	}

	c.JSON(http.StatusCreated, createdRole)
}

// UpdateRole endpoint
func (rc *RoleController) UpdateRole(c *gin.Context) {
	var patch model.RolePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid role data", err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	updatedRole, err := rc.roleService.UpdateRole(c.Request.Context(), actor, c.Param("id"), patch)
	if err != nil {
		util.RespondServiceError(c, "Failed to update role", err)
		return
	}

	c.JSON(http.StatusOK, updatedRole)
}

// SetRolePermission upserts the grant for one key.
func (rc *RoleController) SetRolePermission(c *gin.Context) {
	var spec model.GrantSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid permission data", err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	role, err := rc.roleService.SetRolePermission(c.Request.Context(), actor, c.Param("id"), c.Param("key"), &spec)
	if err != nil {
		util.RespondServiceError(c, "Failed to set role permission", err)
		return
	}

	c.JSON(http.StatusOK, role)
}

func (rc *RoleController) DeleteRolePermission(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	role, err := rc.roleService.SetRolePermission(c.Request.Context(), actor, c.Param("id"), c.Param("key"), nil)
	if err != nil {
		util.RespondServiceError(c, "Failed to remove role permission", err)
		return
	}

	c.JSON(http.StatusOK, role)
}

func (rc *RoleController) ReplaceRolePermissions(c *gin.Context) {
	var body struct {
		Permissions []model.GrantInput `json:"permissions" binding:"dive"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid permission data", err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	role, err := rc.roleService.ReplaceRolePermissions(c.Request.Context(), actor, c.Param("id"), body.Permissions)
	if err != nil {
		util.RespondServiceError(c, "Failed to replace role permissions", err)
		return
	}

	c.JSON(http.StatusOK, role)
}

func (rc *RoleController) DeactivateRole(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	role, err := rc.roleService.DeactivateRole(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		util.RespondServiceError(c, "Failed to deactivate role", err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// DeleteRole endpoint
func (rc *RoleController) DeleteRole(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := rc.roleService.DeleteRole(c.Request.Context(), actor, c.Param("id")); err != nil {
		util.RespondServiceError(c, "Failed to delete role", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetRole endpoint
func (rc *RoleController) GetRole(c *gin.Context) {
	role, err := rc.roleService.GetRole(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.RespondServiceError(c, "Failed to retrieve role", err)
		return
	}

	c.JSON(http.StatusOK, role)
}

// ListRoles endpoint
func (rc *RoleController) ListRoles(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	roles, err := rc.roleService.ListRoles(c.Request.Context(), limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list roles", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

// ListPublicRoles serves role pickers; any authenticated caller may list names.
func (rc *RoleController) ListPublicRoles(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	roles, err := rc.roleService.ListPublicRoles(c.Request.Context())
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list roles", ta_errors.ErrInternalServer)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

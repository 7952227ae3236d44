// api/controller/user_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/dev-mohitbeniwal/teamaccess/api/catalog"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	"github.com/dev-mohitbeniwal/teamaccess/api/middleware"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	pdp_model "github.com/dev-mohitbeniwal/teamaccess/api/pdp/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/service"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
	helper_util "github.com/dev-mohitbeniwal/teamaccess/api/util/helper"
)

type UserController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// RegisterRoutes registers the API routes
func (uc *UserController) RegisterRoutes(r *gin.RouterGroup, guard Guard) {
	users := r.Group("/users")
	{
		users.POST("", guard(catalog.UserCreate, middleware.NoResource), uc.CreateUser)
		users.GET("", guard(catalog.UserRead, middleware.NoResource), uc.ListUsers)
		users.GET("/:id", guard(catalog.UserRead, uc.targetUser), uc.GetUser)
		users.PATCH("/:id", guard(catalog.UserUpdate, uc.targetUser), guard(catalog.UserUpdate, uc.destinationTeam), uc.UpdateUser)
		users.DELETE("/:id", guard(catalog.UserDelete, uc.targetUser), uc.DeleteUser)
		users.POST("/:id/roles", guard(catalog.UserAssignRole, middleware.NoResource), uc.AssignRole)
		users.DELETE("/:id/roles/:roleId", guard(catalog.UserAssignRole, middleware.NoResource), uc.RevokeAssignment)
	}
}

// targetUser describes the user named by the :id parameter: its team and itself as owner.
// An unknown id resolves to the owner only and the handler reports the 404.
func (uc *UserController) targetUser(c *gin.Context) (pdp_model.ResourceContext, error) {
	id := c.Param("id")
	res := pdp_model.ResourceContext{OwnerID: &id}
	user, err := uc.userService.GetUser(c.Request.Context(), id)
	switch {
	case errors.Is(err, ta_errors.ErrUserNotFound):
		return res, nil
	case err != nil:
		return res, err
	}
	if teamID := user.TeamID(); teamID != "" {
		res.TeamID = &teamID
	}
	return res, nil
}

// destinationTeam describes where a PATCH moves the user. A move needs the permission on
// the destination team, and leaving every team needs it globally. Patches that keep the
// team resolve to the target user again. An unreadable body falls through to the handler,
// which reports the 400.
func (uc *UserController) destinationTeam(c *gin.Context) (pdp_model.ResourceContext, error) {
	var patch model.UserPatch
	if err := c.ShouldBindBodyWith(&patch, binding.JSON); err != nil {
		return uc.targetUser(c)
	}
	switch {
	case patch.ClearTeam:
		return pdp_model.ResourceContext{}, nil
	case patch.TeamID != nil:
		teamID := *patch.TeamID
		return pdp_model.ResourceContext{TeamID: &teamID}, nil
	}
	return uc.targetUser(c)
}

// CreateUser endpoint
func (uc *UserController) CreateUser(c *gin.Context) {
	var input model.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	createdUser, err := uc.userService.CreateUser(c.Request.Context(), actor, input)
	if err != nil {
		util.RespondServiceError(c, "Failed to create user", err)
		return
	}

	c.JSON(http.StatusCreated, createdUser)
}

// UpdateUser endpoint
func (uc *UserController) UpdateUser(c *gin.Context) {
	var patch model.UserPatch
	if err := c.ShouldBindBodyWith(&patch, binding.JSON); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid user data", err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	updatedUser, err := uc.userService.UpdateUser(c.Request.Context(), actor, c.Param("id"), patch)
	if err != nil {
		util.RespondServiceError(c, "Failed to update user", err)
		return
	}

	c.JSON(http.StatusOK, updatedUser)
}

func (uc *UserController) AssignRole(c *gin.Context) {
	var input model.AssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid assignment data", err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	user, err := uc.userService.AssignRole(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		util.RespondServiceError(c, "Failed to assign role", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (uc *UserController) RevokeAssignment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	user, err := uc.userService.RevokeAssignment(c.Request.Context(), actor, c.Param("id"), c.Param("roleId"))
	if err != nil {
		util.RespondServiceError(c, "Failed to revoke role", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser endpoint
func (uc *UserController) DeleteUser(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := uc.userService.DeleteUser(c.Request.Context(), actor, c.Param("id")); err != nil {
		util.RespondServiceError(c, "Failed to delete user", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetUser endpoint
func (uc *UserController) GetUser(c *gin.Context) {
	user, err := uc.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.RespondServiceError(c, "Failed to retrieve user", err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUsers endpoint
func (uc *UserController) ListUsers(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	users, err := uc.userService.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list users", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

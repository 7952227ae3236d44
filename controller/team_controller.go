// api/controller/team_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/teamaccess/api/catalog"
	"github.com/dev-mohitbeniwal/teamaccess/api/middleware"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/service"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
	helper_util "github.com/dev-mohitbeniwal/teamaccess/api/util/helper"
)

type TeamController struct {
	teamService service.ITeamService
}

func NewTeamController(teamService service.ITeamService) *TeamController {
	return &TeamController{teamService: teamService}
}

func (tc *TeamController) RegisterRoutes(r *gin.RouterGroup, guard Guard) {
	teams := r.Group("/teams")
	{
		teams.POST("", guard(catalog.TeamCreate, middleware.NoResource), tc.CreateTeam)
		teams.GET("", guard(catalog.TeamRead, middleware.NoResource), tc.ListTeams)
		teams.GET("/:id", guard(catalog.TeamRead, middleware.TeamFromParam("id")), tc.GetTeam)
		teams.PATCH("/:id", guard(catalog.TeamUpdate, middleware.TeamFromParam("id")), tc.UpdateTeam)
		teams.DELETE("/:id", guard(catalog.TeamDelete, middleware.TeamFromParam("id")), tc.DeleteTeam)
	}
}

func (tc *TeamController) CreateTeam(c *gin.Context) {
	var input model.TeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid team data", err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	team, err := tc.teamService.CreateTeam(c.Request.Context(), actor, input)
	if err != nil {
		util.RespondServiceError(c, "Failed to create team", err)
		return
	}

	c.JSON(http.StatusCreated, team)
}

// UpdateTeam renames the team.
func (tc *TeamController) UpdateTeam(c *gin.Context) {
	var input model.TeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid team data", err)
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	team, err := tc.teamService.UpdateTeam(c.Request.Context(), actor, c.Param("id"), input)
	if err != nil {
		util.RespondServiceError(c, "Failed to update team", err)
		return
	}

	c.JSON(http.StatusOK, team)
}

func (tc *TeamController) DeleteTeam(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	if err := tc.teamService.DeleteTeam(c.Request.Context(), actor, c.Param("id")); err != nil {
		util.RespondServiceError(c, "Failed to delete team", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (tc *TeamController) GetTeam(c *gin.Context) {
	team, err := tc.teamService.GetTeam(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.RespondServiceError(c, "Failed to retrieve team", err)
		return
	}

	c.JSON(http.StatusOK, team)
}

func (tc *TeamController) ListTeams(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	teams, err := tc.teamService.ListTeams(c.Request.Context(), limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list teams", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// api/controller/auth_controller.go
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

type AuthController struct {
	authService service.IAuthService
}

func NewAuthController(authService service.IAuthService) *AuthController {
	return &AuthController{authService: authService}
}

// RegisterRoutes registers login and logout. Both run without the auth middleware.
func (ac *AuthController) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", ac.Login)
		auth.POST("/logout", ac.Logout)
	}
}

// Login answers 200 with success=false for bad credentials.
func (ac *AuthController) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid login request", err)
		return
	}

	result, err := ac.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		util.RespondServiceError(c, "Login failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ac *AuthController) Logout(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token == "" {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", ta_errors.ErrUnauthorized)
		return
	}

	if err := ac.authService.Logout(c.Request.Context(), token); err != nil {
		util.RespondServiceError(c, "Logout failed", err)
		return
	}

	c.JSON(http.StatusOK, model.AuthResult{Success: true, Message: "Logged out"})
}

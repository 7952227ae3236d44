// api/controller/user_controller_test.go
package controller_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dev-mohitbeniwal/teamaccess/api/catalog"
	"github.com/dev-mohitbeniwal/teamaccess/api/controller"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	"github.com/dev-mohitbeniwal/teamaccess/api/middleware"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	pdp_model "github.com/dev-mohitbeniwal/teamaccess/api/pdp/model"
	mock_service "github.com/dev-mohitbeniwal/teamaccess/api/test/service_mock"
)

func TestUserController(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserService := mock_service.NewMockIUserService(ctrl)
	router, api := setupRouter(true)
	controller.NewUserController(mockUserService).RegisterRoutes(api, allowAll)

	t.Run("CreateUser_Success", func(t *testing.T) {
		mockUserService.EXPECT().
			CreateUser(gomock.Any(), testActor, gomock.Any()).
			Return(&model.User{ID: "u1", Email: "ann@example.com", PasswordHash: "hash"}, nil)

		w := doRequest(router, http.MethodPost, "/api/users", `{"name":"Ann","email":"ann@example.com","password":"secret-pw"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "hash")
	})

	t.Run("CreateUser_BadEmail", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/users", `{"name":"Ann","email":"nope","password":"secret-pw"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("CreateUser_DuplicateEmail", func(t *testing.T) {
		mockUserService.EXPECT().
			CreateUser(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, ta_errors.ErrDuplicateName)

		w := doRequest(router, http.MethodPost, "/api/users", `{"name":"Ann","email":"ann@example.com","password":"secret-pw"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("GetUser_NotFound", func(t *testing.T) {
		mockUserService.EXPECT().
			GetUser(gomock.Any(), "u9").
			Return(nil, ta_errors.ErrUserNotFound)

		w := doRequest(router, http.MethodGet, "/api/users/u9", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("AssignRole", func(t *testing.T) {
		mockUserService.EXPECT().
			AssignRole(gomock.Any(), gomock.Any(), "u1", model.AssignmentInput{RoleID: "r1"}).
			Return(&model.User{ID: "u1"}, nil)

		w := doRequest(router, http.MethodPost, "/api/users/u1/roles", `{"role":"r1"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("AssignRole_MissingRole", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/users/u1/roles", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("RevokeAssignment_NotHeld", func(t *testing.T) {
		mockUserService.EXPECT().
			RevokeAssignment(gomock.Any(), gomock.Any(), "u1", "r1").
			Return(nil, ta_errors.ErrAssignmentNotFound)

		w := doRequest(router, http.MethodDelete, "/api/users/u1/roles/r1", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("UpdateUser", func(t *testing.T) {
		active := false
		mockUserService.EXPECT().
			UpdateUser(gomock.Any(), gomock.Any(), "u1", model.UserPatch{IsActive: &active}).
			Return(&model.User{ID: "u1"}, nil)

		w := doRequest(router, http.MethodPatch, "/api/users/u1", `{"isActive":false}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("DeleteUser", func(t *testing.T) {
		mockUserService.EXPECT().DeleteUser(gomock.Any(), gomock.Any(), "u1").Return(nil)

		w := doRequest(router, http.MethodDelete, "/api/users/u1", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("ListUsers", func(t *testing.T) {
		mockUserService.EXPECT().
			ListUsers(gomock.Any(), 50, 0).
			Return([]*model.User{{ID: "u1"}}, nil)

		w := doRequest(router, http.MethodGet, "/api/users", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"users"`)
	})
}

func TestTeamController(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTeamService := mock_service.NewMockITeamService(ctrl)
	router, api := setupRouter(true)
	controller.NewTeamController(mockTeamService).RegisterRoutes(api, allowAll)

	t.Run("CreateTeam", func(t *testing.T) {
		mockTeamService.EXPECT().
			CreateTeam(gomock.Any(), testActor, model.TeamInput{Name: "Platform"}).
			Return(&model.Team{ID: "t1", Name: "Platform"}, nil)

		w := doRequest(router, http.MethodPost, "/api/teams", `{"name":"Platform"}`)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("RenameTeam", func(t *testing.T) {
		mockTeamService.EXPECT().
			UpdateTeam(gomock.Any(), gomock.Any(), "t1", model.TeamInput{Name: "Infra"}).
			Return(&model.Team{ID: "t1", Name: "Infra"}, nil)

		w := doRequest(router, http.MethodPatch, "/api/teams/t1", `{"name":"Infra"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("DeleteTeam_InUse", func(t *testing.T) {
		mockTeamService.EXPECT().
			DeleteTeam(gomock.Any(), gomock.Any(), "t1").
			Return(ta_errors.ErrTeamInUse)

		w := doRequest(router, http.MethodDelete, "/api/teams/t1", "")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), ta_errors.ErrTeamInUse.Error())
	})

	t.Run("ListTeams", func(t *testing.T) {
		mockTeamService.EXPECT().
			ListTeams(gomock.Any(), 50, 0).
			Return([]*model.Team{{ID: "t1"}}, nil)

		w := doRequest(router, http.MethodGet, "/api/teams", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"teams"`)
	})
}

type guardCall struct {
	permission string
	resource   pdp_model.ResourceContext
}

// recordGuard lets every request through and records what each guard resolved.
func recordGuard(t *testing.T, calls *[]guardCall) controller.Guard {
	return func(permission string, resolve middleware.ResourceResolver) gin.HandlerFunc {
		return func(c *gin.Context) {
			res, err := resolve(c)
			require.NoError(t, err)
			*calls = append(*calls, guardCall{permission: permission, resource: res})
			c.Next()
		}
	}
}

func TestUserControllerGuards(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockUserService := mock_service.NewMockIUserService(ctrl)
	var calls []guardCall
	router, api := setupRouter(true)
	controller.NewUserController(mockUserService).RegisterRoutes(api, recordGuard(t, &calls))

	team := func(id string) *string { return &id }
	mockUserService.EXPECT().GetUser(gomock.Any(), "u1").Return(&model.User{ID: "u1", Team: &model.TeamRef{ID: "t1"}}, nil).AnyTimes()
	mockUserService.EXPECT().UpdateUser(gomock.Any(), gomock.Any(), "u1", gomock.Any()).Return(&model.User{ID: "u1"}, nil).AnyTimes()
	mockUserService.EXPECT().AssignRole(gomock.Any(), gomock.Any(), "u1", gomock.Any()).Return(&model.User{ID: "u1"}, nil).AnyTimes()
	mockUserService.EXPECT().RevokeAssignment(gomock.Any(), gomock.Any(), "u1", "r1").Return(&model.User{ID: "u1"}, nil).AnyTimes()

	owner := "u1"
	target := pdp_model.ResourceContext{TeamID: team("t1"), OwnerID: &owner}

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   []guardCall
	}{
		{
			name:   "RenameChecksTargetTwice",
			method: http.MethodPatch, path: "/api/users/u1", body: `{"name":"Ann"}`,
			want: []guardCall{{catalog.UserUpdate, target}, {catalog.UserUpdate, target}},
		},
		{
			name:   "MoveChecksDestinationTeam",
			method: http.MethodPatch, path: "/api/users/u1", body: `{"teamId":"t2"}`,
			want: []guardCall{{catalog.UserUpdate, target}, {catalog.UserUpdate, pdp_model.ResourceContext{TeamID: team("t2")}}},
		},
		{
			name:   "LeavingTeamNeedsGlobal",
			method: http.MethodPatch, path: "/api/users/u1", body: `{"clearTeam":true}`,
			want: []guardCall{{catalog.UserUpdate, target}, {catalog.UserUpdate, pdp_model.ResourceContext{}}},
		},
		{
			name:   "AssignNeedsGlobal",
			method: http.MethodPost, path: "/api/users/u1/roles", body: `{"role":"r1"}`,
			want: []guardCall{{catalog.UserAssignRole, pdp_model.ResourceContext{}}},
		},
		{
			name:   "RevokeNeedsGlobal",
			method: http.MethodDelete, path: "/api/users/u1/roles/r1",
			want: []guardCall{{catalog.UserAssignRole, pdp_model.ResourceContext{}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls = nil
			w := doRequest(router, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, calls)
		})
	}
}

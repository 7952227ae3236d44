// api/controller/auth_controller_test.go
package controller_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/dev-mohitbeniwal/teamaccess/api/controller"
	ta_errors "github.com/dev-mohitbeniwal/teamaccess/api/errors"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	mock_service "github.com/dev-mohitbeniwal/teamaccess/api/test/service_mock"
)

func TestAuthController(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthService := mock_service.NewMockIAuthService(ctrl)
	router, api := setupRouter(false)
	controller.NewAuthController(mockAuthService).RegisterRoutes(api)

	t.Run("Login_Success", func(t *testing.T) {
		mockAuthService.EXPECT().
			Login(gomock.Any(), "ann@example.com", "secret-pw").
			Return(&model.AuthResult{Success: true, Token: "tok"}, nil)

		w := doRequest(router, http.MethodPost, "/api/auth/login", `{"email":"ann@example.com","password":"secret-pw"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"token":"tok"}`, w.Body.String())
	})

	t.Run("Login_BadCredentials", func(t *testing.T) {
		mockAuthService.EXPECT().
			Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(&model.AuthResult{Success: false, Message: "Invalid email or password"}, nil)

		w := doRequest(router, http.MethodPost, "/api/auth/login", `{"email":"ann@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("Login_MalformedBody", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/auth/login", `{"email":"ann@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Logout", func(t *testing.T) {
		mockAuthService.EXPECT().Logout(gomock.Any(), "tok").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer tok")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Logout_Revoked", func(t *testing.T) {
		mockAuthService.EXPECT().Logout(gomock.Any(), "old").Return(ta_errors.ErrTokenRevoked)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer old")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Logout_NoToken", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/auth/logout", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// api/controller/controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/teamaccess/api/middleware"
	"github.com/dev-mohitbeniwal/teamaccess/api/model"
	"github.com/dev-mohitbeniwal/teamaccess/api/util"
)

var testActor = model.Actor{ID: "admin", Name: "Admin", Email: "admin@example.com"}

// allowAll stands in for the permission guard; the guard itself is tested in middleware.
func allowAll(string, middleware.ResourceResolver) gin.HandlerFunc {
	return func(c *gin.Context) { c.Next() }
}

func setupRouter(authenticated bool) (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")
	if authenticated {
		api.Use(func(c *gin.Context) {
			util.SetActor(c, testActor, "jti-test")
			c.Next()
		})
	}
	return r, api
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

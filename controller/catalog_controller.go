// api/controller/catalog_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dev-mohitbeniwal/teamaccess/api/catalog"
)

// CatalogController serves the static permission catalog for role editors.
type CatalogController struct{}

func NewCatalogController() *CatalogController {
	return &CatalogController{}
}

func (cc *CatalogController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/permissions", cc.ListPermissions)
}

func (cc *CatalogController) ListPermissions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": catalog.Grouped()})
}

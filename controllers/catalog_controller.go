package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autospec4x4/quote-builder/services"
)

// CatalogController serves the loaded catalog.
type CatalogController struct {
	catalog services.CatalogService
}

// NewCatalogController creates a CatalogController.
func NewCatalogController(catalog services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

// GetCatalog handles GET /api/catalog
func (cc *CatalogController) GetCatalog(ctx *gin.Context) {
	catalog, err := cc.catalog.Catalog(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, catalog)
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autospec4x4/quote-builder/models"
	"github.com/autospec4x4/quote-builder/services"
)

// EnrichController serves live price/weight/image data for variant IDs.
type EnrichController struct {
	enrichment services.EnrichmentService
}

// NewEnrichController creates an EnrichController.
func NewEnrichController(enrichment services.EnrichmentService) *EnrichController {
	return &EnrichController{enrichment: enrichment}
}

type enrichRequest struct {
	Store      string          `json:"store"`
	VariantIDs []models.FlexID `json:"variantIds"`
}

// Enrich handles POST /api/enrich
func (ec *EnrichController) Enrich(ctx *gin.Context) {
	var req enrichRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": services.CodeBadRequest})
		return
	}
	if !services.KnownStore(req.Store) || req.VariantIDs == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": services.CodeBadRequest})
		return
	}

	ids := make([]int64, 0, len(req.VariantIDs))
	for _, id := range req.VariantIDs {
		ids = append(ids, id.Int64())
	}

	variants, svcErr := ec.enrichment.Enrich(ctx.Request.Context(), req.Store, ids)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Code, "message": svcErr.Message})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"variants": variants})
}

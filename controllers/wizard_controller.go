package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autospec4x4/quote-builder/services"
)

// WizardController exposes the quote-builder state machine over HTTP.
type WizardController struct {
	wizard services.WizardService
}

// NewWizardController creates a WizardController.
func NewWizardController(wizard services.WizardService) *WizardController {
	return &WizardController{wizard: wizard}
}

// Start handles POST /api/wizard
func (wc *WizardController) Start(ctx *gin.Context) {
	session, svcErr := wc.wizard.Start(ctx.Request.Context())
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"session": session})
}

// Get handles GET /api/wizard/:id
func (wc *WizardController) Get(ctx *gin.Context) {
	session, svcErr := wc.wizard.Get(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"session": session})
}

// SelectVehicle handles POST /api/wizard/:id/vehicle
func (wc *WizardController) SelectVehicle(ctx *gin.Context) {
	var req struct {
		VehicleID string `json:"vehicleId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "vehicleId is required"})
		return
	}
	session, svcErr := wc.wizard.SelectVehicle(ctx.Request.Context(), ctx.Param("id"), req.VehicleID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"session": session})
}

// Toggle handles POST /api/wizard/:id/toggle
func (wc *WizardController) Toggle(ctx *gin.Context) {
	var req struct {
		ItemID string `json:"itemId" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "itemId is required"})
		return
	}
	session, svcErr := wc.wizard.Toggle(ctx.Request.Context(), ctx.Param("id"), req.ItemID)
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"session": session})
}

// Next handles POST /api/wizard/:id/next
func (wc *WizardController) Next(ctx *gin.Context) {
	session, svcErr := wc.wizard.Next(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"session": session})
}

// Back handles POST /api/wizard/:id/back
func (wc *WizardController) Back(ctx *gin.Context) {
	session, svcErr := wc.wizard.Back(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"session": session})
}

// Totals handles GET /api/wizard/:id/totals
func (wc *WizardController) Totals(ctx *gin.Context) {
	totals, svcErr := wc.wizard.Totals(ctx.Request.Context(), ctx.Param("id"))
	if svcErr != nil {
		ctx.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"totals": totals})
}

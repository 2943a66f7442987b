package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/autospec4x4/quote-builder/config"
	"github.com/autospec4x4/quote-builder/models"
	"github.com/autospec4x4/quote-builder/providers"
	"github.com/autospec4x4/quote-builder/services"
)

// DebugController serves the diagnostic endpoints used when wiring new
// catalog items: catalog shape, raw metafield dumps and credential presence.
type DebugController struct {
	cfg     config.Config
	catalog services.CatalogService
	clients map[string]providers.API
}

// NewDebugController creates a DebugController.
func NewDebugController(cfg config.Config, catalog services.CatalogService, clients map[string]providers.API) *DebugController {
	return &DebugController{cfg: cfg, catalog: catalog, clients: clients}
}

// DebugData handles GET /api/debug-data — a minimal catalog dump.
func (dc *DebugController) DebugData(ctx *gin.Context) {
	catalog, err := dc.catalog.Catalog(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	items := make([]gin.H, 0, len(catalog.Items))
	for _, it := range catalog.Items {
		keys := it.VehicleTypeKeys
		if keys == nil {
			keys = []string{}
		}
		items = append(items, gin.H{
			"id":               it.ID,
			"name":             it.Name,
			"stepId":           it.StepID,
			"vehicleTypeKeys":  keys,
			"variantIdByStore": it.VariantIDByStore,
		})
	}
	steps := make([]gin.H, 0, len(catalog.Steps))
	for _, s := range catalog.Steps {
		steps = append(steps, gin.H{"id": s.ID, "title": s.Title})
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":    items,
		"vehicles": catalog.Vehicles,
		"steps":    steps,
	})
}

// DebugCompat handles GET /api/debug-compat — raw metafield dumps for one
// variant across one or both stores.
func (dc *DebugController) DebugCompat(ctx *gin.Context) {
	variantID, err := strconv.ParseInt(ctx.Query("variantId"), 10, 64)
	if err != nil || variantID <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "variantId required"})
		return
	}
	store := strings.ToLower(ctx.Query("store"))

	var targets []string
	if store == models.StoreAutospec || store == "" {
		targets = append(targets, models.StoreAutospec)
	}
	if store == models.StoreLinex || store == "" {
		targets = append(targets, models.StoreLinex)
	}

	results := make([]gin.H, 0, len(targets))
	for _, label := range targets {
		client, ok := dc.clients[label]
		if !ok {
			results = append(results, gin.H{"store": label, "error": "missing domain/token"})
			continue
		}
		results = append(results, dc.dumpStore(ctx, client, label, variantID))
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "variantId": variantID, "results": results})
}

func (dc *DebugController) dumpStore(ctx *gin.Context, client providers.API, label string, variantID int64) gin.H {
	out := gin.H{"store": label}

	variantMetas, err := client.VariantMetafields(ctx.Request.Context(), variantID)
	if err != nil {
		out["variantMetas"] = gin.H{"error": err.Error()}
	} else {
		out["variantMetas"] = variantMetas
	}

	variant, err := client.GetVariant(ctx.Request.Context(), variantID)
	switch {
	case errors.Is(err, providers.ErrNotFound):
		out["variantInfo"] = gin.H{"ok": false, "status": http.StatusNotFound}
	case err != nil:
		out["variantInfo"] = gin.H{"ok": false, "error": err.Error()}
	default:
		out["variantInfo"] = gin.H{"ok": true, "productId": variant.ProductID}
		productMetas, err := client.ProductMetafields(ctx.Request.Context(), variant.ProductID)
		if err != nil {
			out["productMetas"] = gin.H{"error": err.Error()}
		} else {
			out["productMetas"] = productMetas
		}
	}
	return out
}

// Env handles GET /api/env — boolean presence checks only, never secret
// values.
func (dc *DebugController) Env(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"has_AUTOSPEC_SHOP_DOMAIN": dc.cfg.AutospecShopDomain != "",
		"has_AUTOSPEC_ADMIN_TOKEN": dc.cfg.AutospecAdminToken != "",
		"has_LINEX_SHOP_DOMAIN":    dc.cfg.LinexShopDomain != "",
		"has_LINEX_ADMIN_TOKEN":    dc.cfg.LinexAdminToken != "",
	})
}

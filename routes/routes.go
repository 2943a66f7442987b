package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/autospec4x4/quote-builder/controllers"
)

// Register wires every quote-builder endpoint onto the router.
func Register(
	r *gin.Engine,
	quote *controllers.QuoteController,
	enrich *controllers.EnrichController,
	wizard *controllers.WizardController,
	catalog *controllers.CatalogController,
	debug *controllers.DebugController,
) {
	api := r.Group("/api")
	{
		api.POST("/draft-order", quote.CreateDraftOrder)
		api.POST("/quote", quote.SubmitQuote)
		api.POST("/enrich", enrich.Enrich)

		api.GET("/catalog", catalog.GetCatalog)

		api.POST("/wizard", wizard.Start)
		api.GET("/wizard/:id", wizard.Get)
		api.POST("/wizard/:id/vehicle", wizard.SelectVehicle)
		api.POST("/wizard/:id/toggle", wizard.Toggle)
		api.POST("/wizard/:id/next", wizard.Next)
		api.POST("/wizard/:id/back", wizard.Back)
		api.GET("/wizard/:id/totals", wizard.Totals)

		api.GET("/debug-data", debug.DebugData)
		api.GET("/debug-compat", debug.DebugCompat)
		api.GET("/env", debug.Env)
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

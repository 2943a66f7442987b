package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autospec4x4/quote-builder/models"
	"github.com/autospec4x4/quote-builder/services"
)

// QuoteController handles draft-order creation and the quote submission
// flow.
type QuoteController struct {
	draftOrders services.DraftOrderService
	quotes      services.QuoteService
}

// NewQuoteController creates a QuoteController.
func NewQuoteController(draftOrders services.DraftOrderService, quotes services.QuoteService) *QuoteController {
	return &QuoteController{draftOrders: draftOrders, quotes: quotes}
}

// CreateDraftOrder handles POST /api/draft-order
func (qc *QuoteController) CreateDraftOrder(ctx *gin.Context) {
	var req models.DraftOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": services.CodeBadRequest, "message": "Invalid JSON body"})
		return
	}

	result, svcErr := qc.draftOrders.Create(ctx.Request.Context(), &req)
	if svcErr != nil {
		renderServiceError(ctx, svcErr)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"store":        result.Store,
		"draftOrderId": result.DraftOrderID,
		"orderUrl":     result.OrderURL,
		"invoiceUrl":   result.InvoiceURL,
	})
}

// SubmitQuote handles POST /api/quote
func (qc *QuoteController) SubmitQuote(ctx *gin.Context) {
	var req models.DraftOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, models.QuoteResponse{
			OK:      false,
			General: "Invalid JSON body",
		})
		return
	}

	resp := qc.quotes.Submit(ctx.Request.Context(), &req)
	switch {
	case resp.OK:
		ctx.JSON(http.StatusOK, resp)
	case len(resp.Errors) > 0:
		ctx.JSON(http.StatusBadRequest, resp)
	default:
		ctx.JSON(http.StatusBadGateway, resp)
	}
}

// renderServiceError maps a ServiceError onto the wire shapes callers
// depend on.
func renderServiceError(ctx *gin.Context, svcErr *services.ServiceError) {
	switch svcErr.Code {
	case services.CodeInvalidVariant:
		ctx.JSON(svcErr.StatusCode, gin.H{
			"ok":                false,
			"error":             svcErr.Code,
			"store":             svcErr.Store,
			"message":           svcErr.Message,
			"invalidVariantIds": svcErr.InvalidVariantIDs,
		})
	case services.CodeShopifyError:
		ctx.JSON(svcErr.StatusCode, gin.H{
			"ok":      false,
			"error":   svcErr.Code,
			"status":  svcErr.UpstreamStatus,
			"summary": svcErr.Summary,
			"payload": svcErr.Payload,
		})
	default:
		ctx.JSON(svcErr.StatusCode, gin.H{
			"ok":      false,
			"error":   svcErr.Code,
			"message": svcErr.Message,
		})
	}
}

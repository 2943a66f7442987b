package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autospec4x4/quote-builder/models"
	"github.com/autospec4x4/quote-builder/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeDraftOrders returns a canned result or error.
type fakeDraftOrders struct {
	result *models.DraftOrderResult
	err    *services.ServiceError
}

func (f *fakeDraftOrders) Create(_ context.Context, _ *models.DraftOrderRequest) (*models.DraftOrderResult, *services.ServiceError) {
	return f.result, f.err
}

// fakeQuotes returns a canned quote response.
type fakeQuotes struct {
	resp *models.QuoteResponse
}

func (f *fakeQuotes) Submit(_ context.Context, _ *models.DraftOrderRequest) *models.QuoteResponse {
	return f.resp
}

func newQuoteRouter(draftOrders services.DraftOrderService, quotes services.QuoteService) *gin.Engine {
	router := gin.New()
	qc := NewQuoteController(draftOrders, quotes)
	router.POST("/api/draft-order", qc.CreateDraftOrder)
	router.POST("/api/quote", qc.SubmitQuote)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const minimalDraftOrderBody = `{
	"customer": {"firstName":"Alex","lastName":"Nguyen","email":"alex@example.com","phone":"0400000000","state":"NSW","postcode":"2000"},
	"items": [{"variantId": 111, "quantity": 1}]
}`

func TestCreateDraftOrder_MalformedJSONIs400(t *testing.T) {
	router := newQuoteRouter(&fakeDraftOrders{}, &fakeQuotes{})

	rec := postJSON(t, router, "/api/draft-order", "{not json")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "bad_request", body["error"])
}

func TestCreateDraftOrder_StringVariantIDAccepted(t *testing.T) {
	draftOrders := &fakeDraftOrders{
		result: &models.DraftOrderResult{Store: models.StoreAutospec, DraftOrderID: 42},
	}
	router := newQuoteRouter(draftOrders, &fakeQuotes{})

	rec := postJSON(t, router, "/api/draft-order", `{
		"customer": {"email":"alex@example.com","state":"NSW"},
		"items": [{"variantId": "111", "quantity": 1}]
	}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateDraftOrder_InvalidVariantWireShape(t *testing.T) {
	draftOrders := &fakeDraftOrders{
		err: &services.ServiceError{
			StatusCode:        http.StatusUnprocessableEntity,
			Code:              services.CodeInvalidVariant,
			Store:             models.StoreLinex,
			Message:           "One or more variant IDs do not exist in the target store.",
			InvalidVariantIDs: []int64{222, 333},
		},
	}
	router := newQuoteRouter(draftOrders, &fakeQuotes{})

	rec := postJSON(t, router, "/api/draft-order", minimalDraftOrderBody)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "invalid_variant_for_store", body["error"])
	assert.Equal(t, "linex", body["store"])
	assert.Equal(t, []interface{}{float64(222), float64(333)}, body["invalidVariantIds"])
}

func TestCreateDraftOrder_ShopifyErrorWireShape(t *testing.T) {
	draftOrders := &fakeDraftOrders{
		err: &services.ServiceError{
			StatusCode:     http.StatusBadGateway,
			Code:           services.CodeShopifyError,
			UpstreamStatus: http.StatusUnprocessableEntity,
			Summary:        "Line items can't be blank",
			Payload:        map[string]interface{}{"base": []interface{}{"Line items can't be blank"}},
		},
	}
	router := newQuoteRouter(draftOrders, &fakeQuotes{})

	rec := postJSON(t, router, "/api/draft-order", minimalDraftOrderBody)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "shopify_error", body["error"])
	assert.Equal(t, float64(http.StatusUnprocessableEntity), body["status"])
	assert.Equal(t, "Line items can't be blank", body["summary"])
	assert.NotNil(t, body["payload"])
}

func TestCreateDraftOrder_SuccessWireShape(t *testing.T) {
	draftOrders := &fakeDraftOrders{
		result: &models.DraftOrderResult{
			Store:        models.StoreAutospec,
			DraftOrderID: 42,
			OrderURL:     "https://autospec.myshopify.com/admin/draft_orders/42",
			InvoiceURL:   "https://invoice.example/42",
		},
	}
	router := newQuoteRouter(draftOrders, &fakeQuotes{})

	rec := postJSON(t, router, "/api/draft-order", minimalDraftOrderBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "autospec", body["store"])
	assert.Equal(t, float64(42), body["draftOrderId"])
	assert.Equal(t, "https://autospec.myshopify.com/admin/draft_orders/42", body["orderUrl"])
	assert.Equal(t, "https://invoice.example/42", body["invoiceUrl"])
}

func TestSubmitQuote_FieldErrorsAre400(t *testing.T) {
	quotes := &fakeQuotes{
		resp: &models.QuoteResponse{
			OK:     false,
			Errors: map[string]string{"email": "Enter a valid email"},
		},
	}
	router := newQuoteRouter(&fakeDraftOrders{}, quotes)

	rec := postJSON(t, router, "/api/quote", minimalDraftOrderBody)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	errors, ok := body["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Enter a valid email", errors["email"])
}

func TestSubmitQuote_BackendFailureIs502(t *testing.T) {
	quotes := &fakeQuotes{
		resp: &models.QuoteResponse{
			OK:      false,
			General: "Failed to create draft order",
			Summary: "Line items can't be blank",
		},
	}
	router := newQuoteRouter(&fakeDraftOrders{}, quotes)

	rec := postJSON(t, router, "/api/quote", minimalDraftOrderBody)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSubmitQuote_SuccessIs200(t *testing.T) {
	quotes := &fakeQuotes{
		resp: &models.QuoteResponse{
			OK:       true,
			OrderURL: "https://autospec.myshopify.com/admin/draft_orders/42",
		},
	}
	router := newQuoteRouter(&fakeDraftOrders{}, quotes)

	rec := postJSON(t, router, "/api/quote", minimalDraftOrderBody)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["ok"])
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/autospec4x4/quote-builder/metrics"
	"github.com/autospec4x4/quote-builder/models"
	"github.com/autospec4x4/quote-builder/providers"
)

// DraftOrderService routes a quote to the right store and creates the draft
// order there.
type DraftOrderService interface {
	Create(ctx context.Context, req *models.DraftOrderRequest) (*models.DraftOrderResult, *ServiceError)
}

type draftOrderServiceImpl struct {
	// clients holds one admin client per configured store.
	clients map[string]providers.API
	logger  *zap.Logger
}

// NewDraftOrderService creates a DraftOrderService over the configured store
// clients.
func NewDraftOrderService(clients map[string]providers.API, logger *zap.Logger) DraftOrderService {
	return &draftOrderServiceImpl{clients: clients, logger: logger}
}

// Create validates the request against the routed store and creates the
// draft order. All upstream failures come back as structured errors.
func (s *draftOrderServiceImpl) Create(ctx context.Context, req *models.DraftOrderRequest) (*models.DraftOrderResult, *ServiceError) {
	if req.Customer.Email == "" {
		return nil, badRequest("customer.email is required")
	}
	if len(req.Items) == 0 {
		return nil, badRequest("items must contain at least one item")
	}

	store := RouteStoreByState(req.Customer.State)
	client, ok := s.clients[store]
	if !ok {
		metrics.DraftOrdersTotal.WithLabelValues(store, "bad_request").Inc()
		return nil, badRequest(fmt.Sprintf("Missing env for store %s. Ensure *_SHOP_DOMAIN and *_ADMIN_TOKEN are set.", strings.ToUpper(store)))
	}

	// Resolve every submitted item to one concrete variant ID for this store.
	lineItems := make([]providers.DraftOrderLineItem, 0, len(req.Items))
	for _, it := range req.Items {
		variantID, ok := it.Resolve(store)
		if !ok {
			metrics.DraftOrdersTotal.WithLabelValues(store, "bad_request").Inc()
			return nil, badRequest("Each item must include a valid variantId or variantIdByStore for the target store")
		}
		qty := it.Qty()
		if qty <= 0 {
			metrics.DraftOrdersTotal.WithLabelValues(store, "bad_request").Inc()
			return nil, badRequest("All items must have a positive quantity")
		}
		lineItems = append(lineItems, providers.DraftOrderLineItem{VariantID: variantID, Quantity: qty})
	}

	invalid, svcErr := s.checkVariants(ctx, client, lineItems)
	if svcErr != nil {
		metrics.DraftOrdersTotal.WithLabelValues(store, "shopify_error").Inc()
		return nil, svcErr
	}
	if len(invalid) > 0 {
		metrics.DraftOrdersTotal.WithLabelValues(store, "invalid_variant").Inc()
		return nil, &ServiceError{
			StatusCode:        http.StatusUnprocessableEntity,
			Code:              CodeInvalidVariant,
			Message:           "One or more variant IDs do not exist in the target store.",
			Store:             store,
			InvalidVariantIDs: invalid,
		}
	}

	draft := providers.DraftOrder{
		LineItems:                 lineItems,
		Email:                     req.Customer.Email,
		ShippingAddress:           normalizeAddress(req.Customer),
		BillingAddress:            normalizeAddress(req.Customer),
		Tags:                      "quote-builder",
		UseCustomerDefaultAddress: true,
	}
	if req.Meta != nil {
		draft.Note = models.SelectionsNote(req.Meta.Selections)
	}

	created, err := client.CreateDraftOrder(ctx, draft)
	if err != nil {
		metrics.DraftOrdersTotal.WithLabelValues(store, "shopify_error").Inc()
		var apiErr *providers.APIError
		if errors.As(err, &apiErr) {
			payload := errorPayload(apiErr.Payload)
			summary := summarizeShopifyErrors(payload)
			s.logger.Error("Draft order creation rejected",
				zap.String("store", store),
				zap.Int("upstream_status", apiErr.Status),
				zap.String("summary", summary),
			)
			return nil, shopifyError(apiErr.Status, payload, summary)
		}
		s.logger.Error("Draft order creation failed", zap.String("store", store), zap.Error(err))
		return nil, shopifyError(0, map[string]interface{}{
			"message": "Network error calling Shopify",
			"detail":  err.Error(),
		}, "Network error")
	}

	metrics.DraftOrdersTotal.WithLabelValues(store, "created").Inc()
	s.logger.Info("Draft order created",
		zap.String("store", store),
		zap.Int64("draft_order_id", created.ID),
	)

	return &models.DraftOrderResult{
		Store:        store,
		DraftOrderID: created.ID,
		OrderURL:     fmt.Sprintf("https://%s/admin/draft_orders/%d", client.Domain(), created.ID),
		InvoiceURL:   created.InvoiceURL,
	}, nil
}

// checkVariants verifies every resolved variant ID exists in the target
// store. Missing variants are collected; any other upstream failure aborts
// the whole check.
func (s *draftOrderServiceImpl) checkVariants(ctx context.Context, client providers.API, lineItems []providers.DraftOrderLineItem) ([]int64, *ServiceError) {
	exists := make([]bool, len(lineItems))

	g, gctx := errgroup.WithContext(ctx)
	for i, li := range lineItems {
		i, li := i, li
		g.Go(func() error {
			ok, err := client.VariantExists(gctx, li.VariantID)
			if err != nil {
				return err
			}
			exists[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var apiErr *providers.APIError
		if errors.As(err, &apiErr) {
			return nil, shopifyError(apiErr.Status, errorPayload(apiErr.Payload), "Variant validation error")
		}
		return nil, shopifyError(0, map[string]interface{}{"message": "Variant validation error"}, "Variant validation error")
	}

	var invalid []int64
	for i, li := range lineItems {
		if !exists[i] {
			invalid = append(invalid, li.VariantID)
		}
	}
	return invalid, nil
}

// normalizeAddress maps the customer onto a Shopify address, omitting empty
// fields. Country defaults to Australia.
func normalizeAddress(c models.Customer) *providers.DraftOrderAddress {
	country := c.Country
	if country == "" {
		country = "Australia"
	}
	return &providers.DraftOrderAddress{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
		Zip:       c.Postcode,
		Province:  c.State,
		Address1:  c.Address1,
		Address2:  c.Address2,
		City:      c.City,
		Country:   country,
	}
}

// errorPayload prefers the upstream "errors" member when present, matching
// what operators expect to see in the raw payload.
func errorPayload(payload interface{}) interface{} {
	if m, ok := payload.(map[string]interface{}); ok {
		if errs, ok := m["errors"]; ok {
			return errs
		}
	}
	return payload
}

// summarizeShopifyErrors flattens the upstream error payload into a single
// readable string. Handles the usual shapes: plain string, array of strings,
// {base: [...]} and generic key -> value maps.
func summarizeShopifyErrors(payload interface{}) string {
	const unknown = "Unknown Shopify error"
	switch e := payload.(type) {
	case nil:
		return unknown
	case string:
		if e == "" {
			return unknown
		}
		return e
	case []interface{}:
		return joinValues(e)
	case map[string]interface{}:
		if base, ok := e["base"]; ok {
			switch b := base.(type) {
			case []interface{}:
				return joinValues(b)
			case string:
				return b
			}
		}
		keys := make([]string, 0, len(e))
		for k := range e {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			switch v := e[k].(type) {
			case []interface{}:
				parts = append(parts, fmt.Sprintf("%s: %s", k, joinValues(v)))
			case string:
				parts = append(parts, fmt.Sprintf("%s: %s", k, v))
			default:
				b, _ := json.Marshal(v)
				parts = append(parts, fmt.Sprintf("%s: %s", k, b))
			}
		}
		if len(parts) == 0 {
			return unknown
		}
		return strings.Join(parts, " | ")
	default:
		return unknown
	}
}

// joinValues renders a list of upstream error entries, each a string or an
// object carrying a message.
func joinValues(values []interface{}) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		switch t := v.(type) {
		case string:
			parts = append(parts, t)
		case map[string]interface{}:
			if msg, ok := t["message"].(string); ok {
				parts = append(parts, msg)
				continue
			}
			b, _ := json.Marshal(t)
			parts = append(parts, string(b))
		default:
			b, _ := json.Marshal(t)
			parts = append(parts, string(b))
		}
	}
	return strings.Join(parts, ", ")
}

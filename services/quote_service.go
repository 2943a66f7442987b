package services

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/autospec4x4/quote-builder/models"
)

// Messages shown against each customer form field, matching the storefront.
var customerFieldMessages = map[string]string{
	"FirstName": "First name is required",
	"LastName":  "Last name is required",
	"Email":     "Enter a valid email",
	"Phone":     "Enter a valid phone",
	"State":     "State is required",
	"Postcode":  "Postcode is required",
}

// JSON field names for validator struct fields.
var customerFieldNames = map[string]string{
	"FirstName": "firstName",
	"LastName":  "lastName",
	"Email":     "email",
	"Phone":     "phone",
	"State":     "state",
	"Postcode":  "postcode",
}

// QuoteService is the submission flow: validate the form, then hand off to
// the draft-order service.
type QuoteService interface {
	Submit(ctx context.Context, req *models.DraftOrderRequest) *models.QuoteResponse
}

type quoteServiceImpl struct {
	draftOrders DraftOrderService
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewQuoteService creates a QuoteService delegating creation to the given
// DraftOrderService.
func NewQuoteService(draftOrders DraftOrderService, logger *zap.Logger) QuoteService {
	return &quoteServiceImpl{
		draftOrders: draftOrders,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Submit validates customer and items field-by-field. Any validation error
// returns without touching the back end.
func (s *quoteServiceImpl) Submit(ctx context.Context, req *models.DraftOrderRequest) *models.QuoteResponse {
	errors := s.validateCustomer(req.Customer)

	if len(req.Items) == 0 {
		errors["items"] = "Select at least one item before submitting."
	} else {
		for _, it := range req.Items {
			if it.Qty() <= 0 {
				errors["items"] = "One or more items are invalid."
				break
			}
			if !resolvableAnywhere(it) {
				errors["items"] = "One or more items are invalid."
				break
			}
		}
	}

	if len(errors) > 0 {
		return &models.QuoteResponse{OK: false, Errors: errors}
	}

	result, svcErr := s.draftOrders.Create(ctx, req)
	if svcErr != nil {
		s.logger.Warn("Quote submission failed",
			zap.String("code", svcErr.Code),
			zap.String("message", svcErr.Message),
		)
		return &models.QuoteResponse{
			OK:      false,
			General: "Failed to create draft order",
			Summary: svcErr.Summary,
		}
	}

	return &models.QuoteResponse{OK: true, OrderURL: result.OrderURL}
}

// validateCustomer returns a field -> message map for the customer form.
func (s *quoteServiceImpl) validateCustomer(customer models.Customer) map[string]string {
	errors := make(map[string]string)
	err := s.validate.Struct(customer)
	if err == nil {
		return errors
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["general"] = "Invalid customer details"
		return errors
	}
	for _, fieldErr := range validationErrors {
		name := customerFieldNames[fieldErr.Field()]
		if name == "" {
			name = fieldErr.Field()
		}
		if _, exists := errors[name]; exists {
			continue
		}
		msg := customerFieldMessages[fieldErr.Field()]
		if msg == "" {
			msg = "Invalid value"
		}
		errors[name] = msg
	}
	return errors
}

// resolvableAnywhere reports whether the item carries at least one usable
// variant ID; the store-specific resolution happens later at the routing
// boundary.
func resolvableAnywhere(it models.QuoteItem) bool {
	if it.VariantID > 0 {
		return true
	}
	for _, id := range it.VariantIDByStore {
		if id > 0 {
			return true
		}
	}
	return false
}

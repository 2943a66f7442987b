package services

import "net/http"

// Error codes surfaced to API callers.
const (
	CodeBadRequest      = "bad_request"
	CodeInvalidVariant  = "invalid_variant_for_store"
	CodeShopifyError    = "shopify_error"
	CodeInternalFailure = "server_error"
)

// ServiceError is a typed error with an HTTP status code and the structured
// detail each error class carries.
type ServiceError struct {
	StatusCode int
	Code       string
	Message    string

	// Set for invalid_variant_for_store.
	Store             string
	InvalidVariantIDs []int64

	// Set for shopify_error: the upstream HTTP status (0 on network error),
	// a human-readable summary and the raw error payload.
	UpstreamStatus int
	Summary        string
	Payload        interface{}
}

func (e *ServiceError) Error() string { return e.Message }

func badRequest(message string) *ServiceError {
	return &ServiceError{
		StatusCode: http.StatusBadRequest,
		Code:       CodeBadRequest,
		Message:    message,
	}
}

func shopifyError(upstreamStatus int, payload interface{}, summary string) *ServiceError {
	return &ServiceError{
		StatusCode:     http.StatusBadGateway,
		Code:           CodeShopifyError,
		Message:        summary,
		UpstreamStatus: upstreamStatus,
		Summary:        summary,
		Payload:        payload,
	}
}

package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexID is a variant ID that accepts either a JSON number or a numeric
// string, since the storefront historically sent both.
type FlexID int64

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Tolerate garbage the way the storefront did: treat as unset.
		*f = 0
		return nil
	}
	*f = FlexID(n)
	return nil
}

func (f FlexID) Int64() int64 { return int64(f) }

// QuoteItem is one submitted line. Either VariantID (flat, legacy) or
// VariantIDByStore is set; it is resolved to a single concrete ID at the
// store-routing boundary.
type QuoteItem struct {
	VariantID        FlexID            `json:"variantId,omitempty"`
	VariantIDByStore map[string]FlexID `json:"variantIdByStore,omitempty"`
	Quantity         int               `json:"quantity,omitempty"`
}

// Resolve returns the variant ID usable for the given store, preferring the
// per-store mapping over the flat ID.
func (it QuoteItem) Resolve(store string) (int64, bool) {
	if id, ok := it.VariantIDByStore[store]; ok && id > 0 {
		return id.Int64(), true
	}
	if it.VariantID > 0 {
		return it.VariantID.Int64(), true
	}
	return 0, false
}

// Qty returns the submitted quantity, defaulting to 1 when absent.
func (it QuoteItem) Qty() int {
	if it.Quantity == 0 {
		return 1
	}
	return it.Quantity
}

// Customer holds the form-submitted contact and address fields. Validation
// tags match the storefront's customer schema.
type Customer struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,min=6"`
	State     string `json:"state" validate:"required"`
	Postcode  string `json:"postcode" validate:"required,min=3"`
	Address1  string `json:"address1,omitempty"`
	Address2  string `json:"address2,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
}

// QuoteMeta carries operator-visible context alongside a submission.
type QuoteMeta struct {
	VehicleID  string              `json:"vehicleId,omitempty"`
	Selections map[string][]string `json:"selections,omitempty"`
}

// DraftOrderRequest is the normalized draft-order creation request.
type DraftOrderRequest struct {
	Customer Customer    `json:"customer"`
	Items    []QuoteItem `json:"items"`
	Meta     *QuoteMeta  `json:"meta,omitempty"`
}

// DraftOrderResult is the successful outcome of a draft-order creation.
type DraftOrderResult struct {
	Store        string `json:"store"`
	DraftOrderID int64  `json:"draftOrderId"`
	OrderURL     string `json:"orderUrl"`
	InvoiceURL   string `json:"invoiceUrl,omitempty"`
}

// QuoteResponse is the submission flow outcome surfaced to the form.
type QuoteResponse struct {
	OK       bool              `json:"ok"`
	Errors   map[string]string `json:"errors,omitempty"`
	General  string            `json:"general,omitempty"`
	Summary  string            `json:"summary,omitempty"`
	OrderURL string            `json:"orderUrl,omitempty"`
}

// SelectionsNote renders the selections map as the draft-order note the
// store operators rely on.
func SelectionsNote(selections map[string][]string) string {
	if len(selections) == 0 {
		return ""
	}
	b, err := json.Marshal(selections)
	if err != nil {
		return ""
	}
	return "Quote Builder selections: " + string(b)
}

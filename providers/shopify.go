package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

const adminAPIVersion = "2024-10"

// ErrNotFound is returned when the store has no object with the given ID.
var ErrNotFound = errors.New("shopify: not found")

// APIError is a non-2xx admin API response with its decoded error payload
// preserved for operator diagnosis.
type APIError struct {
	Status  int
	Payload interface{}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify API error (status %d)", e.Status)
}

// ShopifyClient talks to one store's Admin REST API.
type ShopifyClient struct {
	domain     string
	token      string
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// Option configures a ShopifyClient.
type Option func(*ShopifyClient)

// WithBaseURL overrides the API base URL (tests point this at a stub server).
func WithBaseURL(baseURL string) Option {
	return func(c *ShopifyClient) { c.baseURL = baseURL }
}

// NewShopifyClient creates a client for one store. All calls share a single
// circuit breaker so a failing store stops being hammered.
func NewShopifyClient(domain, token string, opts ...Option) *ShopifyClient {
	c := &ShopifyClient{
		domain:  domain,
		token:   token,
		baseURL: fmt.Sprintf("https://%s/admin/api/%s", domain, adminAPIVersion),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     "shopify-" + domain,
		Interval: 15 * time.Second,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			// Not-found and upstream validation rejections are answers, not
			// outages.
			var apiErr *APIError
			return err == nil || errors.Is(err, ErrNotFound) || errors.As(err, &apiErr)
		},
	})
	return c
}

func (c *ShopifyClient) Domain() string { return c.domain }

// GetVariant fetches a variant by ID.
func (c *ShopifyClient) GetVariant(ctx context.Context, variantID int64) (*Variant, error) {
	var resp struct {
		Variant *Variant `json:"variant"`
	}
	path := fmt.Sprintf("/variants/%d.json", variantID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Variant == nil {
		return nil, ErrNotFound
	}
	return resp.Variant, nil
}

// GetProduct fetches a product by ID.
func (c *ShopifyClient) GetProduct(ctx context.Context, productID int64) (*Product, error) {
	var resp struct {
		Product *Product `json:"product"`
	}
	path := fmt.Sprintf("/products/%d.json", productID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Product == nil {
		return nil, ErrNotFound
	}
	return resp.Product, nil
}

// VariantExists reports whether the variant exists in this store.
func (c *ShopifyClient) VariantExists(ctx context.Context, variantID int64) (bool, error) {
	_, err := c.GetVariant(ctx, variantID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// VariantMetafields lists the metafields attached to a variant.
func (c *ShopifyClient) VariantMetafields(ctx context.Context, variantID int64) ([]Metafield, error) {
	var resp struct {
		Metafields []Metafield `json:"metafields"`
	}
	path := fmt.Sprintf("/variants/%d/metafields.json", variantID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Metafields, nil
}

// ProductMetafields lists the metafields attached to a product.
func (c *ShopifyClient) ProductMetafields(ctx context.Context, productID int64) ([]Metafield, error) {
	var resp struct {
		Metafields []Metafield `json:"metafields"`
	}
	path := fmt.Sprintf("/products/%d/metafields.json", productID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Metafields, nil
}

// CreateDraftOrder creates a draft order in this store.
func (c *ShopifyClient) CreateDraftOrder(ctx context.Context, draft DraftOrder) (*DraftOrder, error) {
	reqBody := map[string]DraftOrder{"draft_order": draft}
	var resp struct {
		DraftOrder *DraftOrder `json:"draft_order"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/draft_orders.json", reqBody, &resp); err != nil {
		return nil, err
	}
	if resp.DraftOrder == nil {
		return nil, &APIError{Status: http.StatusOK, Payload: map[string]interface{}{"message": "Unknown Shopify error"}}
	}
	return resp.DraftOrder, nil
}

// ---- HTTP helper ----

func (c *ShopifyClient) doRequest(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.doRequestOnce(ctx, method, path, body, out)
	})
	return err
}

func (c *ShopifyClient) doRequestOnce(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload interface{}
		if err := json.Unmarshal(respBytes, &payload); err != nil {
			payload = map[string]interface{}{"message": string(respBytes)}
		}
		return &APIError{Status: resp.StatusCode, Payload: payload}
	}

	if out != nil {
		if err := json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

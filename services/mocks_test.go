package services

import (
	"context"
	"sync"

	"github.com/autospec4x4/quote-builder/providers"
)

// mockShopifyAPI is a hand-rolled providers.API double. Call counters are
// mutex-guarded because services fan out concurrently.
type mockShopifyAPI struct {
	mu sync.Mutex

	domain            string
	variants          map[int64]*providers.Variant
	products          map[int64]*providers.Product
	variantMetafields map[int64][]providers.Metafield
	productMetafields map[int64][]providers.Metafield

	variantErr error
	createResp *providers.DraftOrder
	createErr  error

	variantCalls int
	productCalls int
	createCalls  int
	createdDraft providers.DraftOrder
}

func newMockShopifyAPI(domain string) *mockShopifyAPI {
	return &mockShopifyAPI{
		domain:            domain,
		variants:          make(map[int64]*providers.Variant),
		products:          make(map[int64]*providers.Product),
		variantMetafields: make(map[int64][]providers.Metafield),
		productMetafields: make(map[int64][]providers.Metafield),
	}
}

func (m *mockShopifyAPI) Domain() string { return m.domain }

func (m *mockShopifyAPI) GetVariant(_ context.Context, variantID int64) (*providers.Variant, error) {
	m.mu.Lock()
	m.variantCalls++
	m.mu.Unlock()
	if m.variantErr != nil {
		return nil, m.variantErr
	}
	v, ok := m.variants[variantID]
	if !ok {
		return nil, providers.ErrNotFound
	}
	return v, nil
}

func (m *mockShopifyAPI) GetProduct(_ context.Context, productID int64) (*providers.Product, error) {
	m.mu.Lock()
	m.productCalls++
	m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return nil, providers.ErrNotFound
	}
	return p, nil
}

func (m *mockShopifyAPI) VariantExists(ctx context.Context, variantID int64) (bool, error) {
	_, err := m.GetVariant(ctx, variantID)
	if err == providers.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (m *mockShopifyAPI) VariantMetafields(_ context.Context, variantID int64) ([]providers.Metafield, error) {
	return m.variantMetafields[variantID], nil
}

func (m *mockShopifyAPI) ProductMetafields(_ context.Context, productID int64) ([]providers.Metafield, error) {
	return m.productMetafields[productID], nil
}

func (m *mockShopifyAPI) CreateDraftOrder(_ context.Context, draft providers.DraftOrder) (*providers.DraftOrder, error) {
	m.mu.Lock()
	m.createCalls++
	m.createdDraft = draft
	m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.createResp, nil
}

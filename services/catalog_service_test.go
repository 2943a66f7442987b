package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/autospec4x4/quote-builder/providers"
)

const catalogSeed = `{
  "steps": [
    {"id": "vehicle_select", "title": "Choose your vehicle", "selectionMode": "single", "required": true},
    {"id": "protection", "title": "Frontal protection", "selectionMode": "single", "required": true}
  ],
  "vehicles": [
    {"id": "hilux-n80", "make": "Toyota", "model": "Hilux N80"}
  ],
  "items": [
    {"id": "bullbar", "name": "Bull Bar", "stepId": "protection", "variantIdByStore": {"autospec": 111}},
    {"id": "nudge", "name": "Nudge Bar", "stepId": "protection", "variantIdByStore": {"autospec": 222}}
  ]
}`

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCatalog_LoadsSeedWithoutClient(t *testing.T) {
	svc := NewCatalogService(writeSeed(t, catalogSeed), nil, zap.NewNop())

	catalog, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog.Steps, 2)
	assert.Len(t, catalog.Items, 2)

	item, ok := catalog.ItemByID("bullbar")
	require.True(t, ok)
	assert.Equal(t, "protection", item.StepID)
}

func TestCatalog_MissingSeedFails(t *testing.T) {
	svc := NewCatalogService(filepath.Join(t.TempDir(), "nope.json"), nil, zap.NewNop())

	_, err := svc.Catalog(context.Background())
	assert.Error(t, err)
}

func TestCatalog_AnnotatesFromVariantMetafield(t *testing.T) {
	mock := newMockShopifyAPI("autospec.myshopify.com")
	mock.variantMetafields[111] = []providers.Metafield{
		{Namespace: "quote", Key: "compatible_vehicle_types", Value: `["hilux-n80","ranger-next-gen"]`},
	}
	// Item 222 has no variant metafield; falls back to the product.
	mock.variants[222] = &providers.Variant{ID: 222, ProductID: 20}
	mock.productMetafields[20] = []providers.Metafield{
		{Namespace: "quote", Key: "compatible_vehicle_types", Value: "hilux-n80, prado-250"},
	}

	svc := NewCatalogService(writeSeed(t, catalogSeed), mock, zap.NewNop())
	catalog, err := svc.Catalog(context.Background())
	require.NoError(t, err)

	bullbar, _ := catalog.ItemByID("bullbar")
	assert.Equal(t, []string{"hilux-n80", "ranger-next-gen"}, bullbar.VehicleTypeKeys)

	nudge, _ := catalog.ItemByID("nudge")
	assert.Equal(t, []string{"hilux-n80", "prado-250"}, nudge.VehicleTypeKeys)
}

func TestCatalog_LookupFailureLeavesItemUniversal(t *testing.T) {
	mock := newMockShopifyAPI("autospec.myshopify.com")
	// Neither variant exists, so the product fallback errors with not-found.

	svc := NewCatalogService(writeSeed(t, catalogSeed), mock, zap.NewNop())
	catalog, err := svc.Catalog(context.Background())
	require.NoError(t, err, "metafield failures must not fail catalog load")

	for _, item := range catalog.Items {
		assert.Empty(t, item.VehicleTypeKeys)
		assert.NotNil(t, item.VehicleTypeKeys)
	}
}

func TestCatalog_SecondCallUsesCachedLoad(t *testing.T) {
	mock := newMockShopifyAPI("autospec.myshopify.com")
	svc := NewCatalogService(writeSeed(t, catalogSeed), mock, zap.NewNop())

	_, err := svc.Catalog(context.Background())
	require.NoError(t, err)
	calls := mock.variantCalls

	_, err = svc.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, calls, mock.variantCalls)
}

func TestParseCompatValue(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"json array", `["hilux-n80","ranger-next-gen"]`, []string{"hilux-n80", "ranger-next-gen"}},
		{"json array with blanks", `["hilux-n80",""," prado-250 "]`, []string{"hilux-n80", "prado-250"}},
		{"comma separated", "hilux-n80, prado-250", []string{"hilux-n80", "prado-250"}},
		{"single token", "hilux-n80", []string{"hilux-n80"}},
		{"empty", "", []string{}},
		{"whitespace", "   ", []string{}},
		{"commas only", ",,,", []string{}},
		{"malformed json falls back to commas", `["hilux-n80"`, []string{`["hilux-n80"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseCompatValue(tt.raw))
		})
	}
}

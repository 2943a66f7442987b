package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/autospec4x4/quote-builder/cache"
	"github.com/autospec4x4/quote-builder/metrics"
	"github.com/autospec4x4/quote-builder/models"
	"github.com/autospec4x4/quote-builder/providers"
)

// negativeEntry marks a variant the store does not have, cached so repeat
// requests do not re-fetch it within the TTL.
var negativeEntry = []byte("null")

// EnrichmentService attaches live price/weight/image data to variant IDs.
type EnrichmentService interface {
	// Enrich returns a record per resolvable variant ID, keyed by the ID as
	// a string. IDs the store does not have are omitted.
	Enrich(ctx context.Context, store string, variantIDs []int64) (map[string]*models.EnrichmentRecord, *ServiceError)
}

type enrichmentServiceImpl struct {
	clients       map[string]providers.API
	cache         cache.Cache
	ttl           time.Duration
	storefrontURL string
	logger        *zap.Logger
}

// NewEnrichmentService creates an EnrichmentService backed by the given
// cache.
func NewEnrichmentService(
	clients map[string]providers.API,
	c cache.Cache,
	ttl time.Duration,
	storefrontURL string,
	logger *zap.Logger,
) EnrichmentService {
	return &enrichmentServiceImpl{
		clients:       clients,
		cache:         c,
		ttl:           ttl,
		storefrontURL: strings.TrimRight(storefrontURL, "/"),
		logger:        logger,
	}
}

func (s *enrichmentServiceImpl) Enrich(ctx context.Context, store string, variantIDs []int64) (map[string]*models.EnrichmentRecord, *ServiceError) {
	if !KnownStore(store) {
		return nil, badRequest("store must be one of autospec, linex")
	}
	client, ok := s.clients[store]
	if !ok {
		return nil, badRequest(fmt.Sprintf("store %s is not configured", store))
	}

	ids := dedupeIDs(variantIDs)

	var mu sync.Mutex
	out := make(map[string]*models.EnrichmentRecord, len(ids))

	var wg sync.WaitGroup
	for _, id := range ids {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := s.enrichOne(ctx, client, store, id)
			if err != nil {
				// A failing variant degrades to "no data" rather than
				// failing the batch.
				s.logger.Warn("Enrichment fetch failed",
					zap.String("store", store),
					zap.Int64("variant_id", id),
					zap.Error(err),
				)
				return
			}
			if record == nil {
				return
			}
			mu.Lock()
			out[strconv.FormatInt(id, 10)] = record
			mu.Unlock()
		}()
	}
	wg.Wait()

	return out, nil
}

// enrichOne returns the cached or freshly fetched record for one variant.
// A nil record with nil error means the store has no such variant.
func (s *enrichmentServiceImpl) enrichOne(ctx context.Context, client providers.API, store string, variantID int64) (*models.EnrichmentRecord, error) {
	key := fmt.Sprintf("enrich:%s:%d", store, variantID)

	if data, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		metrics.EnrichmentCacheHits.Inc()
		if string(data) == string(negativeEntry) {
			return nil, nil
		}
		var record models.EnrichmentRecord
		if err := json.Unmarshal(data, &record); err == nil {
			return &record, nil
		}
		// Corrupt entry: fall through to a fresh fetch.
	}
	metrics.EnrichmentCacheMisses.Inc()

	record, err := s.fetch(ctx, client, variantID)
	if err != nil {
		return nil, err
	}

	if record == nil {
		_ = s.cache.Set(ctx, key, negativeEntry, s.ttl)
		return nil, nil
	}
	if data, err := json.Marshal(record); err == nil {
		_ = s.cache.Set(ctx, key, data, s.ttl)
	}
	return record, nil
}

func (s *enrichmentServiceImpl) fetch(ctx context.Context, client providers.API, variantID int64) (*models.EnrichmentRecord, error) {
	variant, err := client.GetVariant(ctx, variantID)
	if errors.Is(err, providers.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	// The parent product supplies the handle and images; losing it only
	// degrades the record.
	product, err := client.GetProduct(ctx, variant.ProductID)
	if err != nil {
		product = nil
	}

	price, _ := strconv.ParseFloat(variant.Price, 64)
	record := &models.EnrichmentRecord{
		Price:    price,
		WeightKg: float64(variant.Grams) / 1000,
		Title:    variant.Title,
		Image:    pickImageURL(variant, product),
	}
	if product != nil {
		record.Handle = product.Handle
		if product.Handle != "" {
			record.ProductURL = fmt.Sprintf("%s/products/%s", s.storefrontURL, product.Handle)
		}
		if record.Title == "" || record.Title == "Default Title" {
			record.Title = product.Title
		}
	}
	return record, nil
}

// pickImageURL picks the display image: the product image matching the
// variant's image_id, then the variant's own image, then the first product
// image.
func pickImageURL(variant *providers.Variant, product *providers.Product) string {
	if variant.ImageID != 0 && product != nil {
		for _, img := range product.Images {
			if img.ID == variant.ImageID && img.Src != "" {
				return img.Src
			}
		}
	}
	if variant.Image != nil && variant.Image.Src != "" {
		return variant.Image.Src
	}
	if product != nil && len(product.Images) > 0 {
		return product.Images[0].Src
	}
	return ""
}

// dedupeIDs drops non-positive IDs and duplicates, preserving order.
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

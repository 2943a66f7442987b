package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/autospec4x4/quote-builder/models"
	"github.com/autospec4x4/quote-builder/providers"
)

// Metafield identifying an item's compatible vehicle types.
const (
	compatNamespace = "quote"
	compatKey       = "compatible_vehicle_types"
)

// CatalogService loads the static seed and annotates items with
// vehicle-compatibility tags read from store metafields.
type CatalogService interface {
	// Catalog returns the loaded catalog, loading it on first use.
	Catalog(ctx context.Context) (*models.Catalog, error)
	// Reload re-reads the seed and re-annotates.
	Reload(ctx context.Context) (*models.Catalog, error)
}

type catalogServiceImpl struct {
	seedPath string
	// compatClient reads compatibility metafields; nil when no credentials
	// are configured, in which case the seed is served as-is.
	compatClient providers.API
	logger       *zap.Logger

	mu      sync.Mutex
	catalog *models.Catalog
}

// NewCatalogService creates a CatalogService over the given seed file.
// compatClient may be nil.
func NewCatalogService(seedPath string, compatClient providers.API, logger *zap.Logger) CatalogService {
	return &catalogServiceImpl{
		seedPath:     seedPath,
		compatClient: compatClient,
		logger:       logger,
	}
}

func (s *catalogServiceImpl) Catalog(ctx context.Context) (*models.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog != nil {
		return s.catalog, nil
	}
	return s.load(ctx)
}

func (s *catalogServiceImpl) Reload(ctx context.Context) (*models.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *catalogServiceImpl) load(ctx context.Context) (*models.Catalog, error) {
	data, err := os.ReadFile(s.seedPath)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}

	var catalog models.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	if s.compatClient != nil {
		s.annotateCompatibility(ctx, &catalog)
	}

	s.catalog = &catalog
	return s.catalog, nil
}

// annotateCompatibility fills VehicleTypeKeys per item. Every lookup error
// is swallowed per item: a failing metafield read leaves the item fitting
// all vehicles, and never fails catalog load.
func (s *catalogServiceImpl) annotateCompatibility(ctx context.Context, catalog *models.Catalog) {
	var wg sync.WaitGroup
	for i := range catalog.Items {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			item := &catalog.Items[i]
			sampleID, ok := item.SampleVariantID()
			if !ok {
				item.VehicleTypeKeys = []string{}
				return
			}
			keys, err := s.compatKeysForVariant(ctx, sampleID)
			if err != nil {
				s.logger.Warn("Compatibility lookup failed",
					zap.String("item_id", item.ID),
					zap.Int64("variant_id", sampleID),
					zap.Error(err),
				)
				keys = []string{}
			}
			item.VehicleTypeKeys = keys
		}()
	}
	wg.Wait()
}

// compatKeysForVariant reads the compatibility metafield at variant level
// first, falling back to the parent product.
func (s *catalogServiceImpl) compatKeysForVariant(ctx context.Context, variantID int64) ([]string, error) {
	metafields, err := s.compatClient.VariantMetafields(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if keys := compatKeysFrom(metafields); len(keys) > 0 {
		return keys, nil
	}

	variant, err := s.compatClient.GetVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	metafields, err = s.compatClient.ProductMetafields(ctx, variant.ProductID)
	if err != nil {
		return nil, err
	}
	return compatKeysFrom(metafields), nil
}

func compatKeysFrom(metafields []providers.Metafield) []string {
	for _, mf := range metafields {
		if mf.Namespace == compatNamespace && mf.Key == compatKey {
			return parseCompatValue(mf.Value)
		}
	}
	return []string{}
}

// parseCompatValue accepts either a JSON string array or a comma-separated
// token list.
func parseCompatValue(raw string) []string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return []string{}
	}

	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		var arr []string
		if err := json.Unmarshal([]byte(text), &arr); err == nil {
			out := make([]string, 0, len(arr))
			for _, s := range arr {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
			return out
		}
	}

	var out []string
	for _, s := range strings.Split(text, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

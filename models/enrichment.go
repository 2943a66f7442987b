package models

// EnrichmentRecord is the live commerce snapshot attached to a catalog item's
// variant: price, weight and display data fetched from the backing store.
type EnrichmentRecord struct {
	Price      float64 `json:"price"`
	WeightKg   float64 `json:"weightKg"`
	Handle     string  `json:"handle,omitempty"`
	Image      string  `json:"image,omitempty"`
	Title      string  `json:"title,omitempty"`
	ProductURL string  `json:"productUrl,omitempty"`
}

// Totals is the running price/weight summary across all selections.
type Totals struct {
	Price    float64 `json:"price"`
	WeightKg float64 `json:"weightKg"`
}

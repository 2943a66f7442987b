package config

import (
	"os"
	"strings"
	"time"
)

// Config holds all configuration for the quote-builder service.
type Config struct {
	Port string
	Env  string

	// Per-store Shopify admin credentials.
	AutospecShopDomain string
	AutospecAdminToken string
	LinexShopDomain    string
	LinexAdminToken    string

	// Public storefront used for product links.
	StorefrontBaseURL string

	// Catalog seed file.
	SeedPath string

	// Optional redis backing for the enrichment cache and wizard sessions.
	RedisURL string

	EnrichTTL  time.Duration
	SessionTTL time.Duration

	// Exact-match CORS allow list.
	AllowedOrigins []string
}

// StoreCredentials are the domain/token pair for one backing store.
type StoreCredentials struct {
	Domain string
	Token  string
}

// Configured reports whether both the domain and token are set.
func (c StoreCredentials) Configured() bool {
	return c.Domain != "" && c.Token != ""
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		Port:               getEnv("PORT", "8090"),
		Env:                getEnv("APP_ENV", "development"),
		AutospecShopDomain: os.Getenv("AUTOSPEC_SHOP_DOMAIN"),
		AutospecAdminToken: os.Getenv("AUTOSPEC_ADMIN_TOKEN"),
		LinexShopDomain:    os.Getenv("LINEX_SHOP_DOMAIN"),
		LinexAdminToken:    os.Getenv("LINEX_ADMIN_TOKEN"),
		StorefrontBaseURL:  getEnv("STOREFRONT_BASE_URL", "https://autospec4x4.com.au"),
		SeedPath:           getEnv("SEED_PATH", "data/products.json"),
		RedisURL:           os.Getenv("REDIS_URL"),
		EnrichTTL:          5 * time.Minute,
		SessionTTL:         24 * time.Hour,
		AllowedOrigins:     splitOrigins(os.Getenv("ALLOWED_ORIGINS")),
	}
}

// Store returns the credentials for the given store key.
func (c Config) Store(store string) StoreCredentials {
	if store == "linex" {
		return StoreCredentials{Domain: c.LinexShopDomain, Token: c.LinexAdminToken}
	}
	return StoreCredentials{Domain: c.AutospecShopDomain, Token: c.AutospecAdminToken}
}

func splitOrigins(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

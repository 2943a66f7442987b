// Package cache provides the TTL cache backing the enrichment service.
// Values are opaque JSON blobs; a stored nil is a valid negative entry.
package cache

import (
	"context"
	"time"
)

// Cache is a get/set store with per-entry TTL.
type Cache interface {
	// Get returns the stored value and whether the key was present and
	// unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores the value under the key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

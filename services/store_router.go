package services

import (
	"strings"

	"github.com/autospec4x4/quote-builder/models"
)

// RouteStoreByState picks the backing store for a customer: WA routes to
// LINEX, every other state to AUTOSPEC. This two-way partition is a business
// rule, not data-driven.
func RouteStoreByState(state string) string {
	if strings.EqualFold(strings.TrimSpace(state), "wa") {
		return models.StoreLinex
	}
	return models.StoreAutospec
}

// KnownStore reports whether the given key names one of the backing stores.
func KnownStore(store string) bool {
	return store == models.StoreAutospec || store == models.StoreLinex
}

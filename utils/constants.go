// File: utils/constants.go
package utils

import "time"

// CatalogCachePrefix is the prefix used for Redis service catalog keys.
const CatalogCachePrefix = "catalog:service:"

// DefaultCatalogCacheTTL is the time-to-live for cached catalog entries.
const DefaultCatalogCacheTTL = 10 * time.Minute

// Pagination bounds for admin listings.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

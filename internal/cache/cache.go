// Package cache provides the layered response cache used by the fetcher.
// Company pages change rarely, so cached responses make re-runs of the
// scrape step cheap and keep load off the source site.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte-oriented key/value store with TTLs.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from a URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "scope3scan:v1:" + hex.EncodeToString(sum[:])
}

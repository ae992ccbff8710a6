// Package cache stores pipeline results keyed by content hash.
//
// The [Cache] interface has three implementations:
//
//   - [FileCache]: one JSON file per entry under a local directory (CLI)
//   - [RedisCache]: a shared Redis instance (HTTP server)
//   - [NullCache]: stores nothing (--no-cache, tests)
//
// Keys come from a [Keyer]. Layout keys hash the normalized architecture
// together with every option that changes neuron positions; artifact keys
// hash the serialized scene together with the output format options. Equal
// inputs therefore always map to the same entry and any change to the
// inputs produces a new one.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. hit is false when the entry does not
	// exist or has expired.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}

// Default time-to-live per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Dir returns the default cache directory: $XDG_CACHE_HOME/netblend, or the
// platform user cache directory when XDG_CACHE_HOME is unset.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "netblend"), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "netblend"), nil
}

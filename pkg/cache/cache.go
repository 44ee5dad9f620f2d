// Package cache stores fetched download-page content between runs.
//
// Only page bodies are cached. Oracle answers are never cached: every run
// asks the oracle afresh.
//
// Backends:
//   - [FileCache]: one JSON file per key under a directory (default for the CLI)
//   - [RedisCache]: a shared Redis instance
//   - [NullCache]: caching disabled
//
// Use [NewScoped] to prefix keys so different kinds of entries never collide.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and true on a hit, or nil and false on a
	// miss or expired entry.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

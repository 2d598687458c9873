// Package cache provides layout-result caching with pluggable backends.
//
// Placing a large board is the expensive step of the pipeline, and its
// output is a pure function of (circuit, options, seed). The pipeline
// therefore memoizes results keyed by a content hash. Backends:
//
//   - file: per-entry JSON files for CLI usage
//   - memory: process-local map for the HTTP service and tests
//   - redis: shared cache for multi-instance deployments
//   - null: disables caching
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by helpers that treat a miss as an error.
// The Cache interface itself reports misses via its boolean, not errors.
var ErrCacheMiss = errors.New("cache miss")

// DefaultTTL is the default lifetime of a cached layout result.
const DefaultTTL = 24 * time.Hour

// Cache stores opaque byte payloads under string keys with expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the payload for key. The boolean reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key for the given TTL. A non-positive TTL
	// falls back to DefaultTTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Package cache provides the per-run cache used by registry probes.
//
// Registry lookups are cached strictly for the duration of one
// reconciliation run and keyed by exact package name; nothing is
// persisted across runs. The Cache interface allows swapping in the
// NullCache when caching should be disabled (e.g. in tests).
package cache

import "context"

// Cache stores opaque byte payloads under string keys.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value, overwriting any existing entry.
	Set(ctx context.Context, key string, data []byte) error
	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}

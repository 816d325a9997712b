// Package cache provides key-value caching backends and the read-through
// decorators built on them.
package cache

import (
	"context"
	"time"
)

// Store is a minimal byte-oriented cache. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the cached value and whether the key was present
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

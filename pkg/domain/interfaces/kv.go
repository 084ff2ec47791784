package interfaces

import (
	"context"
	"time"
)

// KVStore defines the interface for the hot cache tier. Values are opaque
// bytes; keys expire after their TTL. Implementations must be safe for
// concurrent use.
type KVStore interface {
	// Get retrieves a value by key. Returns ErrCacheMiss for absent or
	// expired keys.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with a TTL. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteByPattern removes all keys matching a pattern. A trailing
	// "*" matches any suffix; a pattern without "*" deletes one key.
	DeleteByPattern(ctx context.Context, pattern string) error

	// Increment atomically adds one to the counter at key and returns
	// the new value. A new counter starts at 1 and expires after ttl;
	// the TTL of an existing counter is left untouched.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)

	Close() error
}

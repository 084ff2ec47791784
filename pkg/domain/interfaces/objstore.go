package interfaces

import "context"

// ObjectStore defines the interface for the cold cache tier. Objects are
// durable and have no TTL; staleness is the caller's concern.
type ObjectStore interface {
	// Get retrieves an object by key. Returns ErrCacheMiss for absent keys.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores an object, replacing any existing one
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes an object. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

package interfaces

import "errors"

var (
	// ErrCacheMiss is returned by KVStore and ObjectStore when the key
	// is absent or expired. A miss is not a failure; callers fall
	// through to the next tier.
	ErrCacheMiss = errors.New("cache miss")

	// ErrNotFound is returned by Repository lookups that resolve to
	// nothing
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned by PokeEventRepository.Create when
	// an event for the same (sender, recipient, UTC date) exists
	ErrAlreadyExists = errors.New("already exists")
)

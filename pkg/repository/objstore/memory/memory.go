package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/gitpoke/pkg/domain/interfaces"
)

// Store is an in-memory object store for tests and local development
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

var _ interfaces.ObjectStore = &Store{}

func New() *Store {
	return &Store{
		objects: make(map[string][]byte),
	}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	if !ok {
		return nil, goerr.Wrap(interfaces.ErrCacheMiss, "object not found", goerr.V("key", key))
	}

	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

func (s *Store) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]byte, len(data))
	copy(copied, data)
	s.objects[key] = copied
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	return nil
}

func (s *Store) Close() error {
	return nil
}

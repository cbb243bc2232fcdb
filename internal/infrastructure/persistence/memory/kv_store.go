// Package memory provides an in-memory key-value store implementation,
// used in tests and for ephemeral demo runs.
package memory

import (
	"context"
	"sync"

	"github.com/pantrychef/v2/internal/ports/outbound"
)

// KeyValueStore implements an in-memory key-value store
type KeyValueStore struct {
	data  map[string][]byte
	mutex sync.RWMutex
}

// NewKeyValueStore creates a new in-memory key-value store
func NewKeyValueStore() *KeyValueStore {
	return &KeyValueStore{
		data: make(map[string][]byte),
	}
}

var _ outbound.KeyValueStore = (*KeyValueStore)(nil)

// Get retrieves a value; absent keys yield (nil, nil)
func (s *KeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores a value under key
func (s *KeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

// Delete removes a key
func (s *KeyValueStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, key)
	return nil
}

package publish

import (
	"context"
	"os"
	"sync"
)

// InMemoryStore is a trivial in-process Store implementation useful for
// tests and dry runs. Uploads read the local file and keep the bytes in a
// map guarded by an RWMutex. Data is copied on retrieval to avoid
// accidental external mutation of internal buffers.
type InMemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewInMemoryStore returns an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{objects: make(map[string][]byte)}
}

// Upload stores (or overwrites) the file's bytes under the given key.
func (s *InMemoryStore) Upload(_ context.Context, localPath, key string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data

	return "mem://" + key, nil
}

// Get returns a copy of the stored object bytes or ErrNotFound.
func (s *InMemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// Keys returns the stored object keys. The slice is a snapshot and safe
// for caller mutation.
func (s *InMemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}

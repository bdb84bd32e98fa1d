package we

import (
	"context"
	"sort"
	"sync"
)

// ReadStore is the read side of a contract's key-value storage. Get returns a *NotFoundError
// for keys that have never been written.
type ReadStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Store is the storage handed to instantiate and execute handlers.
type Store interface {
	ReadStore
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryStore is a Store backed by a map. It is safe for concurrent use.
type MemoryStore struct {
	lk    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.lk.RLock()
	defer s.lk.RUnlock()

	value, ok := s.slots[key]
	if !ok {
		return nil, NotFound(key)
	}

	return clone(value), nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.lk.Lock()
	defer s.lk.Unlock()

	s.slots[key] = clone(value)
	return nil
}

func (s *MemoryStore) Keys() []string {
	s.lk.RLock()
	defer s.lk.RUnlock()

	keys := make([]string, 0, len(s.slots))
	for key := range s.slots {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys
}

func clone(value []byte) []byte {
	if value == nil {
		return nil
	}

	c := make([]byte, len(value))
	copy(c, value)
	return c
}

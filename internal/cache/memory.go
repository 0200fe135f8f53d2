package cache

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/vaultsync/internal/vault"
)

// MemoryStore keeps the cache in process memory. Used in tests and when no
// cache path is configured; the engine works without durability, it just
// loses the offline buffer on restart.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[string]vault.Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[string]vault.Item{}}
}

func (s *MemoryStore) Read(ctx context.Context, namespace string) (map[string]vault.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]vault.Item, len(s.data[namespace]))
	for k, v := range s.data[namespace] {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Write(ctx context.Context, namespace string, items map[string]vault.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make(map[string]vault.Item, len(items))
	for k, v := range items {
		cp[k] = v
	}
	s.data[namespace] = cp
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
var _ vault.Cache = (*MemoryStore)(nil)

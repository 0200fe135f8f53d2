package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/vaultsync/internal/scope"
)

// MemoryStore keeps attachments in process memory. Used in tests and when
// no bucket is configured.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (s *MemoryStore) Put(ctx context.Context, sc scope.Scope, name string, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[objectKey(sc, name)] = b
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, sc scope.Scope, name string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data[objectKey(sc, name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *MemoryStore) Delete(ctx context.Context, sc scope.Scope, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, objectKey(sc, name))
	return nil
}

func (s *MemoryStore) List(ctx context.Context, sc scope.Scope) ([]string, error) {
	prefix := sc.CacheNamespace() + "/"
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			names = append(names, strings.TrimPrefix(k, prefix))
		}
	}
	sort.Strings(names)
	return names, nil
}

var _ Store = (*MemoryStore)(nil)

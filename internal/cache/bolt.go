package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vaultsync/internal/vault"
	bolt "go.etcd.io/bbolt"
)

// BoltStore persists cached items in a bbolt file, one bucket per
// namespace, one JSON-encoded item per key.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the cache file. The open times out
// instead of blocking forever on a stale file lock.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Read(ctx context.Context, namespace string) (map[string]vault.Item, error) {
	out := map[string]vault.Item{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(namespace))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var it vault.Item
			if err := json.Unmarshal(v, &it); err != nil {
				return fmt.Errorf("decoding cached item %q: %w", k, err)
			}
			out[string(k)] = it
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Write replaces the namespace with the given state: the bucket is dropped
// and rebuilt so deleted titles do not linger.
func (s *BoltStore) Write(ctx context.Context, namespace string, items map[string]vault.Item) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		name := []byte(namespace)
		if tx.Bucket(name) != nil {
			if err := tx.DeleteBucket(name); err != nil {
				return fmt.Errorf("clearing namespace %q: %w", namespace, err)
			}
		}
		b, err := tx.CreateBucket(name)
		if err != nil {
			return fmt.Errorf("creating namespace %q: %w", namespace, err)
		}
		for title, it := range items {
			data, err := json.Marshal(it)
			if err != nil {
				return fmt.Errorf("encoding item %q: %w", title, err)
			}
			if err := b.Put([]byte(title), data); err != nil {
				return fmt.Errorf("storing item %q: %w", title, err)
			}
		}
		return nil
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

var _ Store = (*BoltStore)(nil)
var _ vault.Cache = (*BoltStore)(nil)

// Package cache implements the local item cache: a namespaced title→item
// byte store used as a fast read path before the remote round trip and as
// an offline buffer. It is never a source of truth once a session has
// loaded remote data; callers always write the full desired state of a
// namespace.
package cache

import (
	"context"

	"github.com/dmitrijs2005/vaultsync/internal/vault"
)

// Store is the cache contract. Read returns an empty map for an unknown
// namespace; Write replaces the namespace wholesale (no per-key merge).
type Store interface {
	Read(ctx context.Context, namespace string) (map[string]vault.Item, error)
	Write(ctx context.Context, namespace string, items map[string]vault.Item) error
	Close() error
}

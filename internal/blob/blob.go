// Package blob stores item attachments (images, file snippets) outside the
// row store. Objects are keyed under the owning scope's namespace so room
// and personal attachments never collide.
package blob

import (
	"context"
	"errors"
	"io"

	"github.com/dmitrijs2005/vaultsync/internal/scope"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("blob not found")

// Store is the attachment storage contract.
type Store interface {
	// Put uploads the object under the scope's namespace.
	Put(ctx context.Context, sc scope.Scope, name string, r io.Reader) error
	// Get returns the object contents. The caller closes the reader.
	Get(ctx context.Context, sc scope.Scope, name string) (io.ReadCloser, error)
	// Delete removes the object. Deleting an absent object is not an error.
	Delete(ctx context.Context, sc scope.Scope, name string) error
	// List returns the object names stored under the scope's namespace.
	List(ctx context.Context, sc scope.Scope) ([]string, error)
}

// objectKey builds the storage key for a named object within a scope.
func objectKey(sc scope.Scope, name string) string {
	return sc.CacheNamespace() + "/" + name
}

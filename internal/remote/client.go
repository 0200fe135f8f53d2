// Package remote implements the typed client for the authoritative store.
// All operations are qualified by a scope: room items are addressed by
// room_id, personal items by user_id with room_id unset, never by an OR of
// the two.
package remote

import (
	"context"
	"time"

	"github.com/dmitrijs2005/vaultsync/internal/cryptox"
	"github.com/dmitrijs2005/vaultsync/internal/scope"
)

// Row is one stored item as the remote store sees it: the title, the kind,
// and the ciphertext record. A row whose record is empty is a legacy
// unencrypted row and maps to empty plaintext.
type Row struct {
	Title     string
	Kind      string
	Record    cryptox.Record
	UpdatedAt time.Time
}

// Client is the typed CRUD surface of the authoritative store.
type Client interface {
	// List returns all rows in scope, in a stable order.
	List(ctx context.Context, sc scope.Scope) ([]Row, error)

	// Upsert inserts or replaces the row keyed by (scope, title). Replaying
	// the same upsert is a no-op beyond timestamps.
	Upsert(ctx context.Context, sc scope.Scope, row Row) error

	// Delete removes exactly the row matching the full scope predicate.
	// Deleting an absent row is not an error.
	Delete(ctx context.Context, sc scope.Scope, title string) error

	// Rename updates the title in place. The store does not enforce
	// uniqueness ahead of its constraint, so callers must check the merged
	// collection first. Renaming an absent row returns ErrNotFound.
	Rename(ctx context.Context, sc scope.Scope, oldTitle, newTitle string) error

	Close() error
}

// Room is a shared scope that multiple users can join.
type Room struct {
	ID        string
	Name      string
	CreatedBy string
}

// RoomDirectory manages room membership. Separate from Client because the
// sync session itself never touches rooms; only the UI layer does.
type RoomDirectory interface {
	CreateRoom(ctx context.Context, ownerID, name string) (Room, error)
	JoinRoom(ctx context.Context, roomID, userID string) error
	ListRooms(ctx context.Context, userID string) ([]Room, error)
}

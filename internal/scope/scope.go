// Package scope derives the cache namespace, remote predicate branch, and
// secret material for a vault view. A view is either the owner's personal
// vault or a shared room; an item belongs to exactly one of the two for its
// lifetime.
package scope

import "errors"

// ErrMissingIdentity is returned when no owner identity is available yet
// (e.g. the identity provider is still loading, or the user is signed out).
var ErrMissingIdentity = errors.New("missing owner identity")

// Scope identifies one partition of the vault. A zero RoomID means the
// personal vault of OwnerID; a non-zero RoomID means the shared room.
//
// The remote store must filter on exactly one branch: room items by
// room_id, personal items by user_id with room_id unset. Combining the two
// with OR would leak personal items into room views and vice versa, so the
// Postgres client builds its predicates from IsRoom exclusively.
type Scope struct {
	OwnerID string
	RoomID  string
}

// Resolve validates identities and builds a Scope. roomID may be empty for
// the personal vault.
func Resolve(ownerID, roomID string) (Scope, error) {
	if ownerID == "" {
		return Scope{}, ErrMissingIdentity
	}
	return Scope{OwnerID: ownerID, RoomID: roomID}, nil
}

// IsRoom reports whether the scope addresses a shared room.
func (s Scope) IsRoom() bool { return s.RoomID != "" }

// CacheNamespace returns the local-cache namespace for this scope.
// Room and personal namespaces never collide.
func (s Scope) CacheNamespace() string {
	if s.IsRoom() {
		return "room:" + s.RoomID
	}
	return "user:" + s.OwnerID
}

// SecretMaterial returns the default passphrase material for this scope:
// the room id for rooms, the owner id otherwise. Callers wanting real
// confidentiality should supply their own passphrase instead; identifiers
// are not secret.
func (s Scope) SecretMaterial() string {
	if s.IsRoom() {
		return s.RoomID
	}
	return s.OwnerID
}

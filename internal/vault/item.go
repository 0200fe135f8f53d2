// Package vault implements the local-first synchronization engine: it loads
// a working set of named items from the remote store, merges it with the
// local cache, exposes the merged set for editing, and writes edits back
// through a debounced, encrypted upsert path.
package vault

import "time"

// Kind classifies an item's content. All kinds are encrypted uniformly
// before leaving the process; the kind only drives presentation.
type Kind string

const (
	KindNote    Kind = "note"
	KindSnippet Kind = "snippet"
)

// Item is the unit of content. Title is the primary lookup key and is
// unique within a scope; there is no surrogate identifier.
//
// Text is held only in memory and in the local cache. UpdatedAt is local
// bookkeeping, never used for conflict resolution.
type Item struct {
	Title     string    `json:"title"`
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	UpdatedAt time.Time `json:"updated_at"`
}

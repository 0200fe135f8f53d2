package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultsync/internal/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoltStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBoltStore_ReadUnknownNamespaceReturnsEmptyMap(t *testing.T) {
	s := newBoltStore(t)

	got, err := s.Read(context.Background(), "user:u1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBoltStore_WriteReadRoundTrip(t *testing.T) {
	s := newBoltStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	in := map[string]vault.Item{
		"todo":  {Title: "todo", Kind: vault.KindNote, Text: "buy milk", UpdatedAt: now},
		"hello": {Title: "hello", Kind: vault.KindSnippet, Text: "print('hi')", UpdatedAt: now},
	}
	require.NoError(t, s.Write(ctx, "user:u1", in))

	got, err := s.Read(ctx, "user:u1")
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestBoltStore_WriteReplacesWholeNamespace(t *testing.T) {
	s := newBoltStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "user:u1", map[string]vault.Item{
		"a": {Title: "a"},
		"b": {Title: "b"},
	}))
	require.NoError(t, s.Write(ctx, "user:u1", map[string]vault.Item{
		"b": {Title: "b", Text: "kept"},
	}))

	got, err := s.Read(ctx, "user:u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got["b"].Text)
}

func TestBoltStore_NamespacesAreIsolated(t *testing.T) {
	s := newBoltStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "user:u1", map[string]vault.Item{
		"agenda": {Title: "agenda", Text: "personal"},
	}))
	require.NoError(t, s.Write(ctx, "room:r1", map[string]vault.Item{
		"agenda": {Title: "agenda", Text: "shared"},
	}))

	personal, err := s.Read(ctx, "user:u1")
	require.NoError(t, err)
	room, err := s.Read(ctx, "room:r1")
	require.NoError(t, err)

	assert.Equal(t, "personal", personal["agenda"].Text)
	assert.Equal(t, "shared", room["agenda"].Text)
}

func TestBoltStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")
	ctx := context.Background()

	s, err := NewBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, "user:u1", map[string]vault.Item{
		"todo": {Title: "todo", Text: "persisted"},
	}))
	require.NoError(t, s.Close())

	s2, err := NewBoltStore(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Read(ctx, "user:u1")
	require.NoError(t, err)
	assert.Equal(t, "persisted", got["todo"].Text)
}

func TestMemoryStore_CopiesOnReadAndWrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := map[string]vault.Item{"a": {Title: "a", Text: "original"}}
	require.NoError(t, s.Write(ctx, "user:u1", in))

	// Mutating the caller's map after Write must not affect the store.
	in["a"] = vault.Item{Title: "a", Text: "mutated"}

	got, err := s.Read(ctx, "user:u1")
	require.NoError(t, err)
	assert.Equal(t, "original", got["a"].Text)

	// Mutating a read result must not affect the store either.
	got["a"] = vault.Item{Title: "a", Text: "mutated again"}
	got2, err := s.Read(ctx, "user:u1")
	require.NoError(t, err)
	assert.Equal(t, "original", got2["a"].Text)
}

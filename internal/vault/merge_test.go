package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_RemoteWinsOnSharedTitles(t *testing.T) {
	local := map[string]Item{
		"todo":  {Title: "todo", Text: "stale local"},
		"draft": {Title: "draft", Text: "offline only"},
	}
	remote := []Item{
		{Title: "todo", Text: "fresh remote"},
		{Title: "ideas", Text: "remote only"},
	}

	merged, order := Merge(local, remote)

	require.Len(t, merged, 3)
	assert.Equal(t, "fresh remote", merged["todo"].Text)
	assert.Equal(t, "offline only", merged["draft"].Text)
	assert.Equal(t, "remote only", merged["ideas"].Text)

	// Remote order first, then local-only titles.
	assert.Equal(t, []string{"todo", "ideas", "draft"}, order)
}

func TestMerge_Idempotent(t *testing.T) {
	local := map[string]Item{
		"a": {Title: "a", Text: "local a"},
		"b": {Title: "b", Text: "local b"},
	}
	remote := []Item{
		{Title: "b", Text: "remote b"},
		{Title: "c", Text: "remote c"},
	}

	once, orderOnce := Merge(local, remote)
	twice, orderTwice := Merge(once, remote)

	assert.Equal(t, once, twice)
	// Order may differ between passes (local-only titles sort after
	// remote ones), but membership and content must be stable.
	assert.ElementsMatch(t, orderOnce, orderTwice)
}

func TestMerge_EmptyInputs(t *testing.T) {
	merged, order := Merge(nil, nil)
	assert.Empty(t, merged)
	assert.Empty(t, order)

	merged, order = Merge(nil, []Item{{Title: "x"}})
	assert.Len(t, merged, 1)
	assert.Equal(t, []string{"x"}, order)

	merged, order = Merge(map[string]Item{"y": {Title: "y"}}, nil)
	assert.Len(t, merged, 1)
	assert.Equal(t, []string{"y"}, order)
}

func TestMerge_LocalOnlyOrderIsStable(t *testing.T) {
	local := map[string]Item{
		"zeta":  {Title: "zeta"},
		"alpha": {Title: "alpha"},
		"mid":   {Title: "mid"},
	}

	_, order1 := Merge(local, nil)
	_, order2 := Merge(local, nil)

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, order1)
	assert.Equal(t, order1, order2)
}

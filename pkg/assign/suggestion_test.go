package assign

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionCache_SaveDropsRemovals(t *testing.T) {
	ctx := context.Background()
	store := &mapSuggestionStore{}
	cache := NewSuggestionCache(store)

	err := cache.Save(ctx, "tag", State{Entries: []Entry{
		{ID: "A", Op: OpRemove},
		{ID: "B", Op: OpAdd, IsNew: true},
		{ID: "C", Op: OpAdd},
	}})
	require.NoError(t, err)

	got, ok, err := cache.Load(ctx, "tag")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []Entry{{ID: "B", Op: OpAdd}, {ID: "C", Op: OpAdd}}, got)
}

func TestSuggestionCache_RemovalOnlyKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	cache := NewSuggestionCache(&mapSuggestionStore{})

	require.NoError(t, cache.Save(ctx, "tag", State{Entries: []Entry{{ID: "A", Op: OpAdd}}}))
	require.NoError(t, cache.Save(ctx, "tag", State{Entries: []Entry{{ID: "A", Op: OpRemove}}}))

	got, ok, err := cache.Load(ctx, "tag")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []Entry{{ID: "A", Op: OpAdd}}, got)

	_, ok, err = cache.Load(ctx, "notebook")
	require.NoError(t, err)
	assert.False(t, ok)
}

package assign

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var notebookKind = Kind{Name: "notebook", Nouns: Nouns{Subject: "note", Container: "notebook"}, AllowMultiSelect: true}

func openSession(t *testing.T, kind Kind, store *fakeStore, cache *SuggestionCache, subjects []string, candidates []ContainerRef) *Session {
	t.Helper()
	initial, err := NewBuilder(store).Build(context.Background(), subjects, candidates)
	require.NoError(t, err)
	return NewSession(SessionConfig{
		Kind:        kind,
		SubjectIDs:  subjects,
		Initial:     initial,
		Store:       store,
		Factory:     store,
		Suggestions: cache,
	})
}

func TestSession_CreateNewIsSelected(t *testing.T) {
	store := newFakeStore().seed("A", "s1")
	s := openSession(t, notebookKind, store, nil, []string{"s1"}, refs("A"))

	ref, err := s.OnCreateNew(context.Background(), "  Projects ", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Projects"}, store.created)
	assert.Equal(t, Status{Kind: StatusAdd, IsNew: true}, s.State().Status(ref))
	assert.False(t, s.State().IsMultiSelect)
	assert.Equal(t, OpAdd, s.State().Entries[0].Op, "creation does not clear other entries")

	_, err = s.OnCreateNew(context.Background(), " ", "")
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestSession_SingleSelectKindIgnoresModifier(t *testing.T) {
	parentKind := Kind{Name: "parent", Nouns: Nouns{Subject: "notebook", Container: "notebook"}}
	store := newFakeStore().seed("P1", "nb")
	s := openSession(t, parentKind, store, nil, []string{"nb"}, refs("P1", "P2"))

	state, err := s.OnClick(ContainerRef{ID: "P2"}, true)
	require.NoError(t, err)

	assert.False(t, state.IsMultiSelect)
	assert.Equal(t, []Entry{
		{ID: "P1", Op: OpRemove},
		{ID: "P2", Op: OpAdd, IsNew: true},
	}, state.Entries)
}

func TestSession_CommitOnceAndSuggest(t *testing.T) {
	ctx := context.Background()
	cache := NewSuggestionCache(&mapSuggestionStore{})
	store := newFakeStore()

	first := openSession(t, notebookKind, store, cache, []string{"s1"}, refs("A", "B"))
	_, ok, err := first.Suggestion(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _ = first.OnClick(ContainerRef{ID: "A"}, true)
	_, _ = first.OnClick(ContainerRef{ID: "B"}, false)
	res, err := first.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Applied)

	_, err = first.Commit(ctx)
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = first.OnClick(ContainerRef{ID: "A"}, false)
	assert.ErrorIs(t, err, ErrSessionClosed)

	// s2 has no relations yet, so the last selection is offered
	second := openSession(t, notebookKind, store, cache, []string{"s2"}, refs("A", "B"))
	suggested, ok, err := second.Suggestion(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []Entry{{ID: "A", Op: OpAdd}, {ID: "B", Op: OpAdd}}, suggested)

	state, err := second.ApplySuggestion(suggested)
	require.NoError(t, err)
	assert.Len(t, state.Added(), 2)

	// s1 already has relations, so no suggestion
	third := openSession(t, notebookKind, store, cache, []string{"s1"}, refs("A", "B"))
	_, ok, err = third.Suggestion(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSession_ApplySuggestionKeepsSingleSelect(t *testing.T) {
	parentKind := Kind{Name: "parent", Nouns: Nouns{Subject: "notebook", Container: "notebook"}}
	suggested := []Entry{{ID: "P1", Op: OpAdd}, {ID: "P2", Op: OpAdd}}

	t.Run("replaces a pending click", func(t *testing.T) {
		store := newFakeStore()
		s := openSession(t, parentKind, store, nil, []string{"nb"}, refs("P1", "P2", "P3"))
		_, err := s.OnClick(ContainerRef{ID: "P3"}, false)
		require.NoError(t, err)

		state, err := s.ApplySuggestion(suggested)
		require.NoError(t, err)

		assert.False(t, state.IsMultiSelect)
		assert.Equal(t, []Entry{{ID: "P1", Op: OpAdd, IsNew: true}}, state.Entries)

		res, err := s.Commit(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"P1"}, res.Added)
	})

	t.Run("removes the current parent", func(t *testing.T) {
		store := newFakeStore().seed("P0", "nb")
		s := openSession(t, parentKind, store, nil, []string{"nb"}, refs("P0", "P1", "P2"))

		state, err := s.ApplySuggestion(suggested)
		require.NoError(t, err)

		assert.Equal(t, []Entry{
			{ID: "P0", Op: OpRemove},
			{ID: "P1", Op: OpAdd, IsNew: true},
		}, state.Entries)
		assert.Len(t, state.Added(), 1)
	})
}

func TestSession_Reset(t *testing.T) {
	store := newFakeStore().seed("A", "s1").seed("B", "s1")
	s := openSession(t, notebookKind, store, nil, []string{"s1"}, refs("A", "B", "C"))
	assert.True(t, s.State().IsMultiSelect)

	_, _ = s.OnClick(ContainerRef{ID: "A"}, false)
	_, _ = s.OnClick(ContainerRef{ID: "C"}, false)
	state, err := s.Reset()
	require.NoError(t, err)

	assert.Equal(t, []Entry{{ID: "A", Op: OpAdd}, {ID: "B", Op: OpAdd}}, state.Entries)
}

func TestSession_CancelWritesNothing(t *testing.T) {
	store := newFakeStore().seed("A", "s1")
	s := openSession(t, notebookKind, store, nil, []string{"s1"}, refs("A", "B"))

	_, _ = s.OnClick(ContainerRef{ID: "B"}, false)
	s.Cancel()

	assert.True(t, s.Closed())
	assert.Empty(t, store.calls)
}

package memory

import (
	"context"
	"testing"
	"time"

	"notefiber-assign-be/pkg/assign"
	"notefiber-assign-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationStore_LinkQueryUnlink(t *testing.T) {
	ctx := context.Background()
	s := NewRelationStore()
	s.AddContainer("A", "Work")

	require.NoError(t, s.Link(ctx, "A", []string{"n1", "n2"}))
	require.NoError(t, s.Link(ctx, "A", []string{"n1"}))

	found, err := s.Query(ctx, []string{"n1", "n3"}, "A")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"n1"}, found.ToSlice())

	require.NoError(t, s.Unlink(ctx, "A", []string{"n1", "n9"}))
	assert.ElementsMatch(t, []string{"n2"}, s.Linked("A"))

	assert.Error(t, s.Link(ctx, "missing", []string{"n1"}))
}

func TestRelationStore_CreateContainer(t *testing.T) {
	ctx := context.Background()
	s := NewRelationStore()

	id, err := s.CreateContainer(ctx, "Ideas", "")
	require.NoError(t, err)

	titles, err := s.Titles(ctx, []string{id, "unknown"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{id: "Ideas"}, titles)
	assert.Equal(t, []assign.ContainerRef{{ID: id}}, s.Containers())
}

func TestSuggestionStore_CopiesEntries(t *testing.T) {
	ctx := context.Background()
	s := NewSuggestionStore(time.Hour)

	entries := []assign.Entry{{ID: "A", Op: assign.OpAdd}}
	require.NoError(t, s.Put(ctx, "k", entries))
	entries[0].ID = "changed"

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A", got[0].ID)

	_, ok, err = s.Get(ctx, "other")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCandidateCache_InvalidateIsPerUser(t *testing.T) {
	c := NewCandidateCache(time.Minute)
	alice, bob := uuid.New(), uuid.New()

	c.Set(alice, store.KindNotebook, []store.Candidate{{Title: "Work"}})
	c.Set(alice, store.KindTag, []store.Candidate{{Title: "urgent"}})
	c.Set(bob, store.KindTag, []store.Candidate{{Title: "later"}})

	c.Invalidate(alice)

	_, ok := c.Get(alice, store.KindNotebook)
	assert.False(t, ok)
	_, ok = c.Get(alice, store.KindTag)
	assert.False(t, ok)
	got, ok := c.Get(bob, store.KindTag)
	assert.True(t, ok)
	assert.Equal(t, "later", got[0].Title)
}

func TestDialogRepository(t *testing.T) {
	r := NewDialogRepository(time.Minute)
	d := &store.Dialog{ID: "d1", Kind: store.KindTag}

	r.Save(d)
	got, ok := r.Get("d1")
	require.True(t, ok)
	assert.Same(t, d, got)
	assert.Equal(t, 1, r.Count())

	r.Delete("d1")
	_, ok = r.Get("d1")
	assert.False(t, ok)
}

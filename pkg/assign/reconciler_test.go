package assign

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconciler_PartialFailure(t *testing.T) {
	store := newFakeStore()
	store.failOn["link:A"] = errors.New("constraint violation")

	res := NewReconciler(store, nil).Commit(context.Background(), []string{"s1"}, State{
		Entries: []Entry{
			{ID: "A", Op: OpAdd},
			{ID: "B", Op: OpRemove},
		},
	})

	require.Len(t, store.calls, 2)
	assert.Equal(t, call{op: "unlink", containerID: "B", subjectIDs: []string{"s1"}}, store.calls[1])
	assert.Equal(t, 1, res.Applied)
	require.Len(t, res.Failures, 1)

	var mErr *MutationError
	require.ErrorAs(t, res.Failures[0], &mErr)
	assert.Equal(t, "A", mErr.ContainerID)
	assert.Equal(t, OpAdd, mErr.Op)
	assert.Equal(t, []string{"B"}, res.Removed)
}

func TestReconciler_InsertionOrder(t *testing.T) {
	store := newFakeStore()
	res := NewReconciler(store, nil).Commit(context.Background(), []string{"s1", "s2"}, State{
		Entries: []Entry{
			{ID: "C", Op: OpAdd, IsNew: true},
			{ID: "A", Op: OpRemove},
			{ID: "B", Op: OpAdd},
		},
	})

	got := make([]string, len(store.calls))
	for i, c := range store.calls {
		got[i] = c.op + ":" + c.containerID
	}
	assert.Equal(t, []string{"link:C", "unlink:A", "link:B"}, got)
	assert.Equal(t, 3, res.Applied)
	assert.Empty(t, res.Failures)
	assert.Equal(t, []string{"C"}, res.Added, "re-affirmed links are not reported as added")
}

func TestReconciler_EndToEnd(t *testing.T) {
	ctx := context.Background()
	subjects := []string{"note1", "note2"}
	store := newFakeStore().
		seed("notebook1", "note1", "note2").
		seed("notebook2", "note1")

	state, err := NewBuilder(store).Build(ctx, subjects, refs("notebook1", "notebook2", "notebook3"))
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ID: "notebook1", Op: OpAdd}}, state.Entries)

	state = Click(ContainerRef{ID: "notebook3"}, false, state)
	assert.Equal(t, []Entry{
		{ID: "notebook1", Op: OpRemove},
		{ID: "notebook3", Op: OpAdd, IsNew: true},
	}, state.Entries)

	res := NewReconciler(store, nil).Commit(ctx, subjects, state)

	assert.Equal(t, []call{
		{op: "unlink", containerID: "notebook1", subjectIDs: subjects},
		{op: "link", containerID: "notebook3", subjectIDs: subjects},
	}, store.calls)
	assert.Equal(t, 2, res.Applied)
	assert.Empty(t, res.Failures)

	after, err := NewBuilder(store).Build(ctx, subjects, refs("notebook1", "notebook2", "notebook3"))
	require.NoError(t, err)
	assert.Equal(t, []Entry{{ID: "notebook3", Op: OpAdd}}, after.Entries)
	assert.Equal(t, StatusIndeterminate, after.Status(ContainerRef{ID: "notebook2"}).Kind, "untouched indeterminate container is left alone")
}

package assign

import (
	"context"
	"fmt"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

type call struct {
	op          string
	containerID string
	subjectIDs  []string
}

// fakeStore is an in-memory RelationStore that records every mutation.
type fakeStore struct {
	mu      sync.Mutex
	links   map[string]mapset.Set[string] // container -> subjects
	calls   []call
	failOn  map[string]error // "link:A" / "unlink:B"
	nextID  int
	created []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		links:  make(map[string]mapset.Set[string]),
		failOn: make(map[string]error),
	}
}

func (f *fakeStore) seed(containerID string, subjectIDs ...string) *fakeStore {
	if _, ok := f.links[containerID]; !ok {
		f.links[containerID] = mapset.NewSet[string]()
	}
	f.links[containerID].Append(subjectIDs...)
	return f
}

func (f *fakeStore) Query(_ context.Context, subjectIDs []string, containerID string) (mapset.Set[string], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn["query:"+containerID]; err != nil {
		return nil, err
	}
	out := mapset.NewSet[string]()
	linked, ok := f.links[containerID]
	if !ok {
		return out, nil
	}
	for _, id := range subjectIDs {
		if linked.Contains(id) {
			out.Add(id)
		}
	}
	return out, nil
}

func (f *fakeStore) Link(_ context.Context, containerID string, subjectIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: "link", containerID: containerID, subjectIDs: subjectIDs})
	if err := f.failOn["link:"+containerID]; err != nil {
		return err
	}
	if _, ok := f.links[containerID]; !ok {
		f.links[containerID] = mapset.NewSet[string]()
	}
	f.links[containerID].Append(subjectIDs...)
	return nil
}

func (f *fakeStore) Unlink(_ context.Context, containerID string, subjectIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: "unlink", containerID: containerID, subjectIDs: subjectIDs})
	if err := f.failOn["unlink:"+containerID]; err != nil {
		return err
	}
	if linked, ok := f.links[containerID]; ok {
		for _, id := range subjectIDs {
			linked.Remove(id)
		}
	}
	return nil
}

func (f *fakeStore) CreateContainer(_ context.Context, title, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("created-%d", f.nextID)
	f.created = append(f.created, title)
	return id, nil
}

type mapSuggestionStore struct {
	data map[string][]Entry
}

func (m *mapSuggestionStore) Put(_ context.Context, key string, entries []Entry) error {
	if m.data == nil {
		m.data = make(map[string][]Entry)
	}
	m.data[key] = entries
	return nil
}

func (m *mapSuggestionStore) Get(_ context.Context, key string) ([]Entry, bool, error) {
	e, ok := m.data[key]
	return e, ok, nil
}

func refs(ids ...string) []ContainerRef {
	out := make([]ContainerRef, len(ids))
	for i, id := range ids {
		out[i] = ContainerRef{ID: id}
	}
	return out
}

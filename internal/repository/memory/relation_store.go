package memory

import (
	"context"
	"fmt"
	"sync"

	"notefiber-assign-be/pkg/assign"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

// RelationStore is an in-process relation table used by the simulation and
// by service tests. It also creates containers and resolves their titles.
type RelationStore struct {
	mu     sync.RWMutex
	links  map[string]mapset.Set[string]
	titles map[string]string
	order  []string
}

func NewRelationStore() *RelationStore {
	return &RelationStore{
		links:  make(map[string]mapset.Set[string]),
		titles: make(map[string]string),
	}
}

// AddContainer registers a container with a fixed id.
func (s *RelationStore) AddContainer(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.titles[id]; !ok {
		s.order = append(s.order, id)
	}
	s.titles[id] = title
}

// Containers lists registered containers in registration order.
func (s *RelationStore) Containers() []assign.ContainerRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	refs := make([]assign.ContainerRef, len(s.order))
	for i, id := range s.order {
		refs[i] = assign.ContainerRef{ID: id}
	}
	return refs
}

// Linked returns the subjects linked to containerID.
func (s *RelationStore) Linked(containerID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.links[containerID]
	if !ok {
		return nil
	}
	return set.ToSlice()
}

func (s *RelationStore) Query(_ context.Context, subjectIDs []string, containerID string) (mapset.Set[string], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := mapset.NewSet[string]()
	set, ok := s.links[containerID]
	if !ok {
		return found, nil
	}
	for _, id := range subjectIDs {
		if set.Contains(id) {
			found.Add(id)
		}
	}
	return found, nil
}

func (s *RelationStore) Link(_ context.Context, containerID string, subjectIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.titles[containerID]; !ok {
		return fmt.Errorf("container %s does not exist", containerID)
	}
	set, ok := s.links[containerID]
	if !ok {
		set = mapset.NewSet[string]()
		s.links[containerID] = set
	}
	set.Append(subjectIDs...)
	return nil
}

func (s *RelationStore) Unlink(_ context.Context, containerID string, subjectIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.links[containerID]; ok {
		set.RemoveAll(subjectIDs...)
	}
	return nil
}

func (s *RelationStore) CreateContainer(_ context.Context, title string, _ string) (string, error) {
	id := uuid.NewString()
	s.AddContainer(id, title)
	return id, nil
}

func (s *RelationStore) Titles(_ context.Context, ids []string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if title, ok := s.titles[id]; ok {
			out[id] = title
		}
	}
	return out, nil
}

package assign

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Builder computes the state a dialog opens with.
type Builder struct {
	sources []RelationStore
}

// NewBuilder takes every link source relevant to a dialog kind. Links found
// in any source count, so a subject linked through two sources counts once.
func NewBuilder(sources ...RelationStore) *Builder {
	return &Builder{sources: sources}
}

// Build classifies each candidate as linked to none, some or all subjects.
// Fully linked containers become pre-existing add entries; partially linked
// ones are only marked indeterminate and stay out of the diffable entries.
func (b *Builder) Build(ctx context.Context, subjectIDs []string, candidates []ContainerRef) (State, error) {
	subjects := mapset.NewThreadUnsafeSet(subjectIDs...)
	seen := make(map[ContainerRef]struct{}, len(candidates))

	state := State{Entries: make([]Entry, 0), indeterminate: make(map[ContainerRef]struct{})}
	for _, ref := range candidates {
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}

		linked := mapset.NewThreadUnsafeSet[string]()
		for _, src := range b.sources {
			found, err := src.Query(ctx, subjectIDs, ref.ID)
			if err != nil {
				return State{}, fmt.Errorf("query links for container %s: %w", ref.ID, err)
			}
			if found == nil {
				continue
			}
			for _, id := range found.ToSlice() {
				if subjects.Contains(id) {
					linked.Add(id)
				}
			}
		}

		switch n := linked.Cardinality(); {
		case n == 0:
		case n == subjects.Cardinality():
			state.Entries = append(state.Entries, Entry{ID: ref.ID, ParentID: ref.ParentID, Op: OpAdd})
		default:
			state.indeterminate[ref] = struct{}{}
		}
	}

	state.IsMultiSelect = len(state.Entries) > 1
	return state, nil
}

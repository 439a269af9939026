package assign

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
)

// RelationStore persists many-to-many links between subjects and one kind of
// container. Link and Unlink must be idempotent.
type RelationStore interface {
	// Query returns which of subjectIDs are linked to containerID.
	Query(ctx context.Context, subjectIDs []string, containerID string) (mapset.Set[string], error)
	Link(ctx context.Context, containerID string, subjectIDs []string) error
	Unlink(ctx context.Context, containerID string, subjectIDs []string) error
}

// ContainerFactory creates containers inline from the dialog.
type ContainerFactory interface {
	CreateContainer(ctx context.Context, title string, parentID string) (string, error)
}

// TitleResolver maps container ids to display titles for summaries.
type TitleResolver interface {
	Titles(ctx context.Context, ids []string) (map[string]string, error)
}

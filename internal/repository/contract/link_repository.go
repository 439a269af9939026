package contract

import (
	"context"

	"github.com/google/uuid"
)

// LinkRepository manages a many-to-many join table between notes and one
// kind of container.
type LinkRepository interface {
	// LinkedNoteIds returns which of noteIds are linked to containerId.
	LinkedNoteIds(ctx context.Context, containerId uuid.UUID, noteIds []uuid.UUID) ([]uuid.UUID, error)
	Link(ctx context.Context, containerId uuid.UUID, noteIds []uuid.UUID) error
	Unlink(ctx context.Context, containerId uuid.UUID, noteIds []uuid.UUID) error
}

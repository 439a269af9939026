package contract

import (
	"context"

	"notefiber-assign-be/internal/entity"
	"notefiber-assign-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// ClearNotebook unsets the home notebook of the given notes when it is notebookId.
	ClearNotebook(ctx context.Context, notebookId uuid.UUID, noteIds []uuid.UUID) error
}

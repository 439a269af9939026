package contract

import (
	"context"

	"notefiber-assign-be/internal/entity"
	"notefiber-assign-be/internal/repository/specification"

	"github.com/google/uuid"
)

type NotebookRepository interface {
	Create(ctx context.Context, notebook *entity.Notebook) error
	Update(ctx context.Context, notebook *entity.Notebook) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Notebook, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notebook, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SetParent moves the given notebooks under parentId.
	SetParent(ctx context.Context, parentId uuid.UUID, ids []uuid.UUID) error
	// ClearParent detaches the given notebooks from parentId. Notebooks with
	// another parent are left alone.
	ClearParent(ctx context.Context, parentId uuid.UUID, ids []uuid.UUID) error
}

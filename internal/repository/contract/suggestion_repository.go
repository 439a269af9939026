package contract

import (
	"context"

	"notefiber-assign-be/internal/model"

	"github.com/google/uuid"
)

type SuggestionRepository interface {
	Upsert(ctx context.Context, suggestion *model.AssignSuggestion) error
	FindOne(ctx context.Context, userId uuid.UUID, kind string) (*model.AssignSuggestion, error)
}

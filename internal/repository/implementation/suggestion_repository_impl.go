package implementation

import (
	"context"
	"errors"

	"notefiber-assign-be/internal/model"
	"notefiber-assign-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SuggestionRepositoryImpl struct {
	db *gorm.DB
}

func NewSuggestionRepository(db *gorm.DB) contract.SuggestionRepository {
	return &SuggestionRepositoryImpl{db: db}
}

func (r *SuggestionRepositoryImpl) Upsert(ctx context.Context, suggestion *model.AssignSuggestion) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "kind"}},
			DoUpdates: clause.AssignmentColumns([]string{"entries", "updated_at"}),
		}).
		Create(suggestion).Error
}

func (r *SuggestionRepositoryImpl) FindOne(ctx context.Context, userId uuid.UUID, kind string) (*model.AssignSuggestion, error) {
	var m model.AssignSuggestion
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userId, kind).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

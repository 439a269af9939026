package implementation

import (
	"context"
	"fmt"

	"notefiber-assign-be/internal/model"
	"notefiber-assign-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LinkRepositoryImpl serves both note join tables; T is the row model.
type LinkRepositoryImpl[T any] struct {
	db              *gorm.DB
	containerColumn string
	newRow          func(containerId, noteId uuid.UUID) T
}

func NewNoteNotebookRepository(db *gorm.DB) contract.LinkRepository {
	return &LinkRepositoryImpl[model.NoteNotebook]{
		db:              db,
		containerColumn: "notebook_id",
		newRow: func(containerId, noteId uuid.UUID) model.NoteNotebook {
			return model.NoteNotebook{NotebookId: containerId, NoteId: noteId}
		},
	}
}

func NewNoteTagRepository(db *gorm.DB) contract.LinkRepository {
	return &LinkRepositoryImpl[model.NoteTag]{
		db:              db,
		containerColumn: "tag_id",
		newRow: func(containerId, noteId uuid.UUID) model.NoteTag {
			return model.NoteTag{TagId: containerId, NoteId: noteId}
		},
	}
}

func (r *LinkRepositoryImpl[T]) where() string {
	return fmt.Sprintf("%s = ? AND note_id IN ?", r.containerColumn)
}

func (r *LinkRepositoryImpl[T]) LinkedNoteIds(ctx context.Context, containerId uuid.UUID, noteIds []uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	if len(noteIds) == 0 {
		return ids, nil
	}
	if err := r.db.WithContext(ctx).
		Model(new(T)).
		Where(r.where(), containerId, noteIds).
		Pluck("note_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Link inserts the missing rows; existing links are kept as they are.
func (r *LinkRepositoryImpl[T]) Link(ctx context.Context, containerId uuid.UUID, noteIds []uuid.UUID) error {
	if len(noteIds) == 0 {
		return nil
	}
	rows := make([]T, len(noteIds))
	for i, id := range noteIds {
		rows[i] = r.newRow(containerId, id)
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *LinkRepositoryImpl[T]) Unlink(ctx context.Context, containerId uuid.UUID, noteIds []uuid.UUID) error {
	if len(noteIds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where(r.where(), containerId, noteIds).
		Delete(new(T)).Error
}

package unitofwork

import (
	"context"

	"notefiber-assign-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	NotebookRepository() contract.NotebookRepository
	NoteRepository() contract.NoteRepository
	TagRepository() contract.TagRepository
	NoteNotebookRepository() contract.LinkRepository
	NoteTagRepository() contract.LinkRepository
	SuggestionRepository() contract.SuggestionRepository
}

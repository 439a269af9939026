package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notefiber-assign-be/internal/entity"
	"notefiber-assign-be/internal/repository/contract"
	"notefiber-assign-be/internal/repository/specification"
	"notefiber-assign-be/internal/repository/unitofwork"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

var ErrCycle = errors.New("a notebook cannot be moved under itself or one of its descendants")

func parseIDs(ids []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(ids))
	for i, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", raw, err)
		}
		out[i] = id
	}
	return out, nil
}

func idSet(ids []uuid.UUID) mapset.Set[string] {
	set := mapset.NewSet[string]()
	for _, id := range ids {
		set.Add(id.String())
	}
	return set
}

// joinTableStore links notes to containers through a join table.
type joinTableStore struct {
	uowFactory unitofwork.RepositoryFactory
	repo       func(uow unitofwork.UnitOfWork) contract.LinkRepository
	// clearHome also unsets the note's home notebook on unlink.
	clearHome bool
}

func (s *joinTableStore) Query(ctx context.Context, subjectIDs []string, containerID string) (mapset.Set[string], error) {
	noteIds, err := parseIDs(subjectIDs)
	if err != nil {
		return nil, err
	}
	cid, err := uuid.Parse(containerID)
	if err != nil {
		return nil, err
	}
	linked, err := s.repo(s.uowFactory.NewUnitOfWork(ctx)).LinkedNoteIds(ctx, cid, noteIds)
	if err != nil {
		return nil, err
	}
	return idSet(linked), nil
}

func (s *joinTableStore) Link(ctx context.Context, containerID string, subjectIDs []string) error {
	noteIds, err := parseIDs(subjectIDs)
	if err != nil {
		return err
	}
	cid, err := uuid.Parse(containerID)
	if err != nil {
		return err
	}
	return s.repo(s.uowFactory.NewUnitOfWork(ctx)).Link(ctx, cid, noteIds)
}

func (s *joinTableStore) Unlink(ctx context.Context, containerID string, subjectIDs []string) error {
	noteIds, err := parseIDs(subjectIDs)
	if err != nil {
		return err
	}
	cid, err := uuid.Parse(containerID)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if !s.clearHome {
		return s.repo(uow).Unlink(ctx, cid, noteIds)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := s.repo(uow).Unlink(ctx, cid, noteIds); err != nil {
		return err
	}
	if err := uow.NoteRepository().ClearNotebook(ctx, cid, noteIds); err != nil {
		return err
	}
	return uow.Commit()
}

// homeNotebookSource reports notes whose home notebook is the container. It
// is read by the builder only; writes go through the join table store.
type homeNotebookSource struct {
	uowFactory unitofwork.RepositoryFactory
}

func (s *homeNotebookSource) Query(ctx context.Context, subjectIDs []string, containerID string) (mapset.Set[string], error) {
	noteIds, err := parseIDs(subjectIDs)
	if err != nil {
		return nil, err
	}
	cid, err := uuid.Parse(containerID)
	if err != nil {
		return nil, err
	}
	notes, err := s.uowFactory.NewUnitOfWork(ctx).NoteRepository().FindAll(ctx,
		specification.ByIDs{IDs: noteIds},
		specification.ByNotebookID{NotebookID: cid},
	)
	if err != nil {
		return nil, err
	}
	found := mapset.NewSet[string]()
	for _, n := range notes {
		found.Add(n.Id.String())
	}
	return found, nil
}

func (s *homeNotebookSource) Link(context.Context, string, []string) error {
	return nil
}

func (s *homeNotebookSource) Unlink(context.Context, string, []string) error {
	return nil
}

// parentStore relates notebooks to their parent notebook.
type parentStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func (s *parentStore) Query(ctx context.Context, subjectIDs []string, containerID string) (mapset.Set[string], error) {
	ids, err := parseIDs(subjectIDs)
	if err != nil {
		return nil, err
	}
	cid, err := uuid.Parse(containerID)
	if err != nil {
		return nil, err
	}
	children, err := s.uowFactory.NewUnitOfWork(ctx).NotebookRepository().FindAll(ctx,
		specification.ByIDs{IDs: ids},
		specification.ByParentID{ParentID: &cid},
	)
	if err != nil {
		return nil, err
	}
	found := mapset.NewSet[string]()
	for _, nb := range children {
		found.Add(nb.Id.String())
	}
	return found, nil
}

func (s *parentStore) Link(ctx context.Context, containerID string, subjectIDs []string) error {
	ids, err := parseIDs(subjectIDs)
	if err != nil {
		return err
	}
	cid, err := uuid.Parse(containerID)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := s.checkCycle(ctx, uow.NotebookRepository(), cid, idSet(ids)); err != nil {
		return err
	}
	return uow.NotebookRepository().SetParent(ctx, cid, ids)
}

// checkCycle walks up from the new parent and fails if it meets a subject.
func (s *parentStore) checkCycle(ctx context.Context, repo contract.NotebookRepository, parentId uuid.UUID, subjects mapset.Set[string]) error {
	seen := mapset.NewThreadUnsafeSet[uuid.UUID]()
	current := &parentId
	for current != nil {
		if subjects.Contains(current.String()) {
			return ErrCycle
		}
		if !seen.Add(*current) {
			return ErrCycle
		}
		nb, err := repo.FindOne(ctx, specification.ByID{ID: *current})
		if err != nil {
			return err
		}
		if nb == nil {
			return nil
		}
		current = nb.ParentId
	}
	return nil
}

func (s *parentStore) Unlink(ctx context.Context, containerID string, subjectIDs []string) error {
	ids, err := parseIDs(subjectIDs)
	if err != nil {
		return err
	}
	cid, err := uuid.Parse(containerID)
	if err != nil {
		return err
	}
	return s.uowFactory.NewUnitOfWork(ctx).NotebookRepository().ClearParent(ctx, cid, ids)
}

// notebookFactory creates notebooks for one user.
type notebookFactory struct {
	uowFactory unitofwork.RepositoryFactory
	userId     uuid.UUID
}

func (f *notebookFactory) CreateContainer(ctx context.Context, title string, parentID string) (string, error) {
	uow := f.uowFactory.NewUnitOfWork(ctx)

	var parentId *uuid.UUID
	if parentID != "" {
		pid, err := uuid.Parse(parentID)
		if err != nil {
			return "", err
		}
		parent, err := uow.NotebookRepository().FindOne(ctx,
			specification.ByID{ID: pid},
			specification.UserOwnedBy{UserID: f.userId},
		)
		if err != nil {
			return "", err
		}
		if parent == nil {
			return "", ErrForbidden
		}
		parentId = &pid
	}

	notebook := &entity.Notebook{
		Id:        uuid.New(),
		Name:      title,
		ParentId:  parentId,
		UserId:    f.userId,
		CreatedAt: time.Now(),
	}
	if err := uow.NotebookRepository().Create(ctx, notebook); err != nil {
		return "", err
	}
	return notebook.Id.String(), nil
}

// tagFactory reuses a tag with the same title before creating one.
type tagFactory struct {
	uowFactory unitofwork.RepositoryFactory
	userId     uuid.UUID
}

func (f *tagFactory) CreateContainer(ctx context.Context, title string, _ string) (string, error) {
	uow := f.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.TagRepository().FindOne(ctx,
		specification.ByTitle{Title: title},
		specification.UserOwnedBy{UserID: f.userId},
	)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.Id.String(), nil
	}

	tag := &entity.Tag{
		Id:        uuid.New(),
		Title:     title,
		UserId:    f.userId,
		CreatedAt: time.Now(),
	}
	if err := uow.TagRepository().Create(ctx, tag); err != nil {
		return "", err
	}
	return tag.Id.String(), nil
}

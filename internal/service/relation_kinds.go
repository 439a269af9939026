package service

import (
	"context"

	"notefiber-assign-be/internal/repository/contract"
	"notefiber-assign-be/internal/repository/memory"
	"notefiber-assign-be/internal/repository/specification"
	"notefiber-assign-be/internal/repository/unitofwork"
	"notefiber-assign-be/pkg/assign"
	"notefiber-assign-be/pkg/store"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
)

// RelationKind binds a dialog kind to the stores behind it.
type RelationKind struct {
	assign.Kind
	// Sources are unioned when the dialog opens. Store must be one of them.
	Sources []assign.RelationStore
	Store   assign.RelationStore
	Titles  assign.TitleResolver
	Factory func(userId uuid.UUID) assign.ContainerFactory
	// CheckSubjects returns ErrForbidden unless the user owns every subject.
	CheckSubjects func(ctx context.Context, userId uuid.UUID, ids []uuid.UUID) error
	// ListCandidates returns every container of this kind the user owns.
	ListCandidates func(ctx context.Context, userId uuid.UUID) ([]store.Candidate, error)
	// Exclude optionally removes candidates that make no sense for the subjects.
	Exclude func(candidates []store.Candidate, subjectIDs []string) []store.Candidate
}

var (
	noteNouns     = assign.Nouns{Subject: "note", Container: "notebook"}
	tagNouns      = assign.Nouns{Subject: "note", Container: "tag"}
	notebookNouns = assign.Nouns{Subject: "notebook", Container: "notebook"}
)

// NewRelationKinds wires the database backed kinds.
func NewRelationKinds(uowFactory unitofwork.RepositoryFactory) map[string]*RelationKind {
	noteNotebooks := &joinTableStore{
		uowFactory: uowFactory,
		repo:       func(uow unitofwork.UnitOfWork) contract.LinkRepository { return uow.NoteNotebookRepository() },
		clearHome:  true,
	}
	noteTags := &joinTableStore{
		uowFactory: uowFactory,
		repo:       func(uow unitofwork.UnitOfWork) contract.LinkRepository { return uow.NoteTagRepository() },
	}
	parents := &parentStore{uowFactory: uowFactory}
	notebookTitles := &notebookTitleResolver{uowFactory: uowFactory}

	return map[string]*RelationKind{
		store.KindNotebook: {
			Kind:    assign.Kind{Name: store.KindNotebook, Nouns: noteNouns, AllowMultiSelect: true},
			Sources: []assign.RelationStore{noteNotebooks, &homeNotebookSource{uowFactory: uowFactory}},
			Store:   noteNotebooks,
			Titles:  notebookTitles,
			Factory: func(userId uuid.UUID) assign.ContainerFactory {
				return &notebookFactory{uowFactory: uowFactory, userId: userId}
			},
			CheckSubjects:  ownedNotes(uowFactory),
			ListCandidates: listNotebooks(uowFactory),
		},
		store.KindTag: {
			Kind:    assign.Kind{Name: store.KindTag, Nouns: tagNouns, AllowMultiSelect: true},
			Sources: []assign.RelationStore{noteTags},
			Store:   noteTags,
			Titles:  &tagTitleResolver{uowFactory: uowFactory},
			Factory: func(userId uuid.UUID) assign.ContainerFactory {
				return &tagFactory{uowFactory: uowFactory, userId: userId}
			},
			CheckSubjects:  ownedNotes(uowFactory),
			ListCandidates: listTags(uowFactory),
		},
		store.KindParent: {
			Kind:    assign.Kind{Name: store.KindParent, Nouns: notebookNouns},
			Sources: []assign.RelationStore{parents},
			Store:   parents,
			Titles:  notebookTitles,
			Factory: func(userId uuid.UUID) assign.ContainerFactory {
				return &notebookFactory{uowFactory: uowFactory, userId: userId}
			},
			CheckSubjects:  ownedNotebooks(uowFactory),
			ListCandidates: listNotebooks(uowFactory),
			Exclude:        ExcludeSubtrees,
		},
	}
}

func ownedNotes(uowFactory unitofwork.RepositoryFactory) func(context.Context, uuid.UUID, []uuid.UUID) error {
	return func(ctx context.Context, userId uuid.UUID, ids []uuid.UUID) error {
		count, err := uowFactory.NewUnitOfWork(ctx).NoteRepository().Count(ctx,
			specification.ByIDs{IDs: ids},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return err
		}
		if count != int64(mapset.NewThreadUnsafeSet(ids...).Cardinality()) {
			return ErrForbidden
		}
		return nil
	}
}

func ownedNotebooks(uowFactory unitofwork.RepositoryFactory) func(context.Context, uuid.UUID, []uuid.UUID) error {
	return func(ctx context.Context, userId uuid.UUID, ids []uuid.UUID) error {
		count, err := uowFactory.NewUnitOfWork(ctx).NotebookRepository().Count(ctx,
			specification.ByIDs{IDs: ids},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return err
		}
		if count != int64(mapset.NewThreadUnsafeSet(ids...).Cardinality()) {
			return ErrForbidden
		}
		return nil
	}
}

func listNotebooks(uowFactory unitofwork.RepositoryFactory) func(context.Context, uuid.UUID) ([]store.Candidate, error) {
	return func(ctx context.Context, userId uuid.UUID) ([]store.Candidate, error) {
		notebooks, err := uowFactory.NewUnitOfWork(ctx).NotebookRepository().FindAll(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.OrderBy{Field: "name"},
		)
		if err != nil {
			return nil, err
		}
		candidates := make([]store.Candidate, 0, len(notebooks))
		for _, nb := range notebooks {
			ref := assign.ContainerRef{ID: nb.Id.String()}
			if nb.ParentId != nil {
				ref.ParentID = nb.ParentId.String()
			}
			candidates = append(candidates, store.Candidate{Ref: ref, Title: nb.Name})
		}
		return candidates, nil
	}
}

func listTags(uowFactory unitofwork.RepositoryFactory) func(context.Context, uuid.UUID) ([]store.Candidate, error) {
	return func(ctx context.Context, userId uuid.UUID) ([]store.Candidate, error) {
		tags, err := uowFactory.NewUnitOfWork(ctx).TagRepository().FindAll(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.OrderBy{Field: "title"},
		)
		if err != nil {
			return nil, err
		}
		candidates := make([]store.Candidate, 0, len(tags))
		for _, tag := range tags {
			candidates = append(candidates, store.Candidate{
				Ref:   assign.ContainerRef{ID: tag.Id.String()},
				Title: tag.Title,
			})
		}
		return candidates, nil
	}
}

// ExcludeSubtrees drops the subjects and all of their descendants.
func ExcludeSubtrees(candidates []store.Candidate, subjectIDs []string) []store.Candidate {
	children := make(map[string][]string)
	for _, c := range candidates {
		if c.Ref.ParentID != "" {
			children[c.Ref.ParentID] = append(children[c.Ref.ParentID], c.Ref.ID)
		}
	}

	excluded := mapset.NewThreadUnsafeSet[string]()
	queue := append([]string(nil), subjectIDs...)
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if !excluded.Add(id) {
			continue
		}
		queue = append(queue, children[id]...)
	}

	out := make([]store.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if !excluded.Contains(c.Ref.ID) {
			out = append(out, c)
		}
	}
	return out
}

type notebookTitleResolver struct {
	uowFactory unitofwork.RepositoryFactory
}

func (r *notebookTitleResolver) Titles(ctx context.Context, ids []string) (map[string]string, error) {
	parsed, err := parseIDs(ids)
	if err != nil {
		return nil, err
	}
	notebooks, err := r.uowFactory.NewUnitOfWork(ctx).NotebookRepository().FindAll(ctx, specification.ByIDs{IDs: parsed})
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(notebooks))
	for _, nb := range notebooks {
		titles[nb.Id.String()] = nb.Name
	}
	return titles, nil
}

type tagTitleResolver struct {
	uowFactory unitofwork.RepositoryFactory
}

func (r *tagTitleResolver) Titles(ctx context.Context, ids []string) (map[string]string, error) {
	parsed, err := parseIDs(ids)
	if err != nil {
		return nil, err
	}
	tags, err := r.uowFactory.NewUnitOfWork(ctx).TagRepository().FindAll(ctx, specification.ByIDs{IDs: parsed})
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(tags))
	for _, tag := range tags {
		titles[tag.Id.String()] = tag.Title
	}
	return titles, nil
}

// NewInMemoryRelationKind backs a kind with a process-local relation table.
// Every subject is treated as owned by the caller.
func NewInMemoryRelationKind(kind assign.Kind, rel *memory.RelationStore) *RelationKind {
	return &RelationKind{
		Kind:    kind,
		Sources: []assign.RelationStore{rel},
		Store:   rel,
		Titles:  rel,
		Factory: func(uuid.UUID) assign.ContainerFactory {
			return rel
		},
		CheckSubjects: func(context.Context, uuid.UUID, []uuid.UUID) error {
			return nil
		},
		ListCandidates: func(ctx context.Context, _ uuid.UUID) ([]store.Candidate, error) {
			refs := rel.Containers()
			ids := make([]string, len(refs))
			for i, ref := range refs {
				ids[i] = ref.ID
			}
			titles, err := rel.Titles(ctx, ids)
			if err != nil {
				return nil, err
			}
			candidates := make([]store.Candidate, len(refs))
			for i, ref := range refs {
				candidates[i] = store.Candidate{Ref: ref, Title: titles[ref.ID]}
			}
			return candidates, nil
		},
	}
}

package unitofwork

import (
	"context"

	"notefiber-assign-be/internal/mapper"
	"notefiber-assign-be/pkg/assign"
	"notefiber-assign-be/pkg/store"
)

// SuggestionStore persists suggestions in the assign_suggestions table.
// Keys are built with store.SuggestionKey.
type SuggestionStore struct {
	uowFactory RepositoryFactory
	mapper     *mapper.SuggestionMapper
}

func NewSuggestionStore(uowFactory RepositoryFactory) *SuggestionStore {
	return &SuggestionStore{
		uowFactory: uowFactory,
		mapper:     mapper.NewSuggestionMapper(),
	}
}

func (s *SuggestionStore) Put(ctx context.Context, key string, entries []assign.Entry) error {
	userId, kind, err := store.ParseSuggestionKey(key)
	if err != nil {
		return err
	}
	m, err := s.mapper.ToModel(userId, kind, entries)
	if err != nil {
		return err
	}
	return s.uowFactory.NewUnitOfWork(ctx).SuggestionRepository().Upsert(ctx, m)
}

func (s *SuggestionStore) Get(ctx context.Context, key string) ([]assign.Entry, bool, error) {
	userId, kind, err := store.ParseSuggestionKey(key)
	if err != nil {
		return nil, false, err
	}
	m, err := s.uowFactory.NewUnitOfWork(ctx).SuggestionRepository().FindOne(ctx, userId, kind)
	if err != nil {
		return nil, false, err
	}
	if m == nil {
		return nil, false, nil
	}
	entries, err := s.mapper.ToEntries(m)
	if err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

package memory

import (
	"context"
	"time"

	"notefiber-assign-be/pkg/assign"

	"github.com/patrickmn/go-cache"
)

// SuggestionStore is the process-local assign.SuggestionStore.
type SuggestionStore struct {
	cache *cache.Cache
}

func NewSuggestionStore(ttl time.Duration) *SuggestionStore {
	return &SuggestionStore{
		cache: cache.New(ttl, time.Hour),
	}
}

func (s *SuggestionStore) Put(_ context.Context, key string, entries []assign.Entry) error {
	s.cache.Set(key, append([]assign.Entry(nil), entries...), cache.DefaultExpiration)
	return nil
}

func (s *SuggestionStore) Get(_ context.Context, key string) ([]assign.Entry, bool, error) {
	x, found := s.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	return append([]assign.Entry(nil), x.([]assign.Entry)...), true, nil
}

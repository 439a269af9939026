package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"notefiber-assign-be/pkg/assign"

	"github.com/redis/go-redis/v9"
)

const suggestionKeyPrefix = "assign:suggestion:"

// SuggestionStore keeps suggestions in Redis so they survive restarts and are
// shared between instances.
type SuggestionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSuggestionStore(rdb *redis.Client, ttl time.Duration) *SuggestionStore {
	return &SuggestionStore{rdb: rdb, ttl: ttl}
}

func (s *SuggestionStore) Put(ctx context.Context, key string, entries []assign.Entry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal suggestion: %w", err)
	}
	return s.rdb.Set(ctx, suggestionKeyPrefix+key, raw, s.ttl).Err()
}

func (s *SuggestionStore) Get(ctx context.Context, key string) ([]assign.Entry, bool, error) {
	raw, err := s.rdb.Get(ctx, suggestionKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var entries []assign.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, fmt.Errorf("unmarshal suggestion: %w", err)
	}
	return entries, true, nil
}

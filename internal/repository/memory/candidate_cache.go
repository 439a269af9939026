package memory

import (
	"strings"
	"time"

	"notefiber-assign-be/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// CandidateCache holds the unfiltered candidate list per user and kind.
type CandidateCache struct {
	cache *cache.Cache
}

func NewCandidateCache(ttl time.Duration) *CandidateCache {
	return &CandidateCache{
		cache: cache.New(ttl, 5*time.Minute),
	}
}

func candidateKey(userID uuid.UUID, kind string) string {
	return userID.String() + "|" + kind
}

func (c *CandidateCache) Get(userID uuid.UUID, kind string) ([]store.Candidate, bool) {
	if x, found := c.cache.Get(candidateKey(userID, kind)); found {
		return x.([]store.Candidate), true
	}
	return nil, false
}

func (c *CandidateCache) Set(userID uuid.UUID, kind string, candidates []store.Candidate) {
	c.cache.Set(candidateKey(userID, kind), candidates, cache.DefaultExpiration)
}

// Invalidate drops every cached kind for the user.
func (c *CandidateCache) Invalidate(userID uuid.UUID) {
	prefix := userID.String() + "|"
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

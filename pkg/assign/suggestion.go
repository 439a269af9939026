package assign

import "context"

// SuggestionStore is the keyed blob store behind SuggestionCache.
type SuggestionStore interface {
	Put(ctx context.Context, key string, entries []Entry) error
	Get(ctx context.Context, key string) ([]Entry, bool, error)
}

// SuggestionCache remembers the last committed selection per dialog kind so
// it can be offered again when a dialog opens with no existing relations.
type SuggestionCache struct {
	store SuggestionStore
}

func NewSuggestionCache(store SuggestionStore) *SuggestionCache {
	return &SuggestionCache{store: store}
}

// Save stores the add entries of state under kind. A selection with only
// removals is not worth re-offering and leaves the previous value intact.
func (c *SuggestionCache) Save(ctx context.Context, kind string, state State) error {
	added := state.Added()
	if len(added) == 0 {
		return nil
	}
	entries := make([]Entry, len(added))
	for i, e := range added {
		entries[i] = Entry{ID: e.ID, ParentID: e.ParentID, Op: OpAdd}
	}
	return c.store.Put(ctx, kind, entries)
}

// Load returns the last saved suggestion for kind.
func (c *SuggestionCache) Load(ctx context.Context, kind string) ([]Entry, bool, error) {
	return c.store.Get(ctx, kind)
}

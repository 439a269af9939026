package memory

import (
	"time"

	"notefiber-assign-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// DialogRepository keeps open assignment dialogs. Abandoned dialogs expire
// on their own.
type DialogRepository struct {
	cache *cache.Cache
}

func NewDialogRepository(ttl time.Duration) *DialogRepository {
	c := cache.New(ttl, 10*time.Minute)
	return &DialogRepository{
		cache: c,
	}
}

// Save stores the dialog and refreshes its expiry.
func (r *DialogRepository) Save(dialog *store.Dialog) {
	r.cache.Set(dialog.ID, dialog, cache.DefaultExpiration)
}

func (r *DialogRepository) Get(dialogID string) (*store.Dialog, bool) {
	if x, found := r.cache.Get(dialogID); found {
		return x.(*store.Dialog), true
	}
	return nil, false
}

func (r *DialogRepository) Delete(dialogID string) {
	r.cache.Delete(dialogID)
}

func (r *DialogRepository) Count() int {
	return r.cache.ItemCount()
}

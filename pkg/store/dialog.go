package store

import (
	"fmt"
	"strings"
	"sync"

	"notefiber-assign-be/pkg/assign"

	"github.com/google/uuid"
)

// Candidate is a container the user may pick in a dialog.
type Candidate struct {
	Ref   assign.ContainerRef `json:"ref"`
	Title string              `json:"title"`
}

// Dialog is an open assignment dialog held in memory between requests.
type Dialog struct {
	ID         string    `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	Kind       string    `json:"kind"`
	Query      string    `json:"query"`
	Session    *assign.Session
	Candidates []Candidate
	// Suggestion is offered once on open and kept until applied or committed.
	Suggestion []assign.Entry

	// Lock serialises requests against the same dialog.
	sync.Mutex
}

const (
	KindNotebook = "notebook"
	KindTag      = "tag"
	KindParent   = "parent"
)

// Candidate returns the candidate with the given id.
func (d *Dialog) Candidate(id string) (Candidate, bool) {
	for _, c := range d.Candidates {
		if c.Ref.ID == id {
			return c, true
		}
	}
	return Candidate{}, false
}

// Titles maps candidate ids to titles.
func (d *Dialog) Titles() map[string]string {
	out := make(map[string]string, len(d.Candidates))
	for _, c := range d.Candidates {
		out[c.Ref.ID] = c.Title
	}
	return out
}

// SuggestionKey scopes a saved suggestion to its owner.
func SuggestionKey(userID uuid.UUID, kind string) string {
	return userID.String() + ":" + kind
}

func ParseSuggestionKey(key string) (uuid.UUID, string, error) {
	rawID, kind, ok := strings.Cut(key, ":")
	if !ok || kind == "" {
		return uuid.Nil, "", fmt.Errorf("malformed suggestion key %q", key)
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("malformed suggestion key %q: %w", key, err)
	}
	return userID, kind, nil
}

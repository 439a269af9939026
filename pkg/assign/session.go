package assign

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notefiber-assign-be/internal/pkg/logger"
)

var (
	ErrSessionClosed = errors.New("assign: session already committed or cancelled")
	ErrEmptyTitle    = errors.New("assign: container title is required")
)

// Kind describes one family of assignment dialogs.
type Kind struct {
	Name             string
	Nouns            Nouns
	AllowMultiSelect bool
}

// SessionConfig carries the collaborators of a Session.
type SessionConfig struct {
	Kind        Kind
	SubjectIDs  []string
	Initial     State
	Store       RelationStore
	Factory     ContainerFactory
	Suggestions *SuggestionCache
	// SuggestionKey scopes the saved suggestion, defaults to Kind.Name.
	SuggestionKey string
	Logger        logger.ILogger
}

// Session is the engine behind one open dialog. It is owned by a single
// dialog and is not safe for concurrent use.
type Session struct {
	kind          Kind
	subjectIDs    []string
	state         State
	reconciler    *Reconciler
	factory       ContainerFactory
	suggestions   *SuggestionCache
	suggestionKey string
	logger        logger.ILogger
	closed        bool
}

func NewSession(cfg SessionConfig) *Session {
	key := cfg.SuggestionKey
	if key == "" {
		key = cfg.Kind.Name
	}
	return &Session{
		kind:          cfg.Kind,
		subjectIDs:    append([]string(nil), cfg.SubjectIDs...),
		state:         cfg.Initial.Clone(),
		reconciler:    NewReconciler(cfg.Store, cfg.Logger),
		factory:       cfg.Factory,
		suggestions:   cfg.Suggestions,
		suggestionKey: key,
		logger:        cfg.Logger,
	}
}

func (s *Session) Kind() Kind {
	return s.kind
}

func (s *Session) SubjectIDs() []string {
	return append([]string(nil), s.subjectIDs...)
}

// State returns a copy of the current selection for rendering.
func (s *Session) State() State {
	return s.state.Clone()
}

func (s *Session) Closed() bool {
	return s.closed
}

// OnClick handles a click on ref. Kinds without multi-select ignore the
// modifier key.
func (s *Session) OnClick(ref ContainerRef, modifier bool) (State, error) {
	if s.closed {
		return State{}, ErrSessionClosed
	}
	if !s.kind.AllowMultiSelect {
		modifier = false
	}
	s.state = Click(ref, modifier, s.state)
	return s.State(), nil
}

// OnCreateNew creates a container and selects it.
func (s *Session) OnCreateNew(ctx context.Context, title, parentID string) (ContainerRef, error) {
	if s.closed {
		return ContainerRef{}, ErrSessionClosed
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return ContainerRef{}, ErrEmptyTitle
	}
	id, err := s.factory.CreateContainer(ctx, title, parentID)
	if err != nil {
		return ContainerRef{}, fmt.Errorf("create %s: %w", s.kind.Nouns.Container, err)
	}
	ref := ContainerRef{ID: id, ParentID: parentID}
	s.state = AppendCreated(ref, s.state)
	return ref, nil
}

// Reset restores the selection the dialog opened with.
func (s *Session) Reset() (State, error) {
	if s.closed {
		return State{}, ErrSessionClosed
	}
	s.state = ResetToOriginal(s.state)
	return s.State(), nil
}

// Suggestion returns the last committed selection for this kind. It is only
// offered while the dialog opened without any existing relation.
func (s *Session) Suggestion(ctx context.Context) ([]Entry, bool, error) {
	if s.suggestions == nil || len(s.state.Entries) > 0 || len(s.state.indeterminate) > 0 {
		return nil, false, nil
	}
	return s.suggestions.Load(ctx, s.suggestionKey)
}

// ApplySuggestion accepts a suggestion offered by Suggestion. Kinds without
// multi-select take the first suggested container as a plain click, so
// anything already selected is scheduled for removal.
func (s *Session) ApplySuggestion(entries []Entry) (State, error) {
	if s.closed {
		return State{}, ErrSessionClosed
	}
	if s.kind.AllowMultiSelect {
		s.state = ApplySuggestion(entries, s.state)
		return s.State(), nil
	}

	for _, e := range entries {
		if e.Op != OpAdd {
			continue
		}
		ref := e.Ref()
		if idx := s.state.Find(ref); idx < 0 || s.state.Entries[idx].Op != OpAdd {
			s.state = SelectSingle(ref, s.state)
		}
		break
	}
	return s.State(), nil
}

// Commit applies the selection and remembers it as the next suggestion.
// A session commits at most once.
func (s *Session) Commit(ctx context.Context) (Result, error) {
	if s.closed {
		return Result{}, ErrSessionClosed
	}
	s.closed = true

	res := s.reconciler.Commit(ctx, s.subjectIDs, s.state)

	if s.suggestions != nil {
		if err := s.suggestions.Save(ctx, s.suggestionKey, s.state); err != nil && s.logger != nil {
			s.logger.Warn("Session", "Failed to save selection suggestion", map[string]interface{}{
				"kind":  s.kind.Name,
				"error": err.Error(),
			})
		}
	}
	return res, nil
}

// Cancel discards the session. Nothing has been written, so nothing is undone.
func (s *Session) Cancel() {
	s.closed = true
}

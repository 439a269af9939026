package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"notefiber-assign-be/internal/dto"
	"notefiber-assign-be/internal/pkg/logger"
	"notefiber-assign-be/internal/repository/memory"
	"notefiber-assign-be/pkg/assign"
	"notefiber-assign-be/pkg/events"
	"notefiber-assign-be/pkg/store"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrDialogNotFound   = errors.New("assign dialog not found or expired")
	ErrForbidden        = errors.New("you do not own one of the requested items")
	ErrUnknownKind      = errors.New("unknown assign dialog kind")
	ErrUnknownContainer = errors.New("container is not offered by this dialog")
	ErrNoSuggestion     = errors.New("no suggestion to apply")
)

// EventPublisher is satisfied by the NATS publisher.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IAssignService interface {
	Open(ctx context.Context, userId uuid.UUID, req *dto.OpenAssignRequest) (*dto.AssignDialogResponse, error)
	State(ctx context.Context, userId uuid.UUID, dialogId string) (*dto.AssignDialogResponse, error)
	Click(ctx context.Context, userId uuid.UUID, dialogId string, req *dto.AssignClickRequest) (*dto.AssignDialogResponse, error)
	CreateContainer(ctx context.Context, userId uuid.UUID, dialogId string, req *dto.CreateContainerRequest) (*dto.AssignDialogResponse, error)
	Reset(ctx context.Context, userId uuid.UUID, dialogId string) (*dto.AssignDialogResponse, error)
	ApplySuggestion(ctx context.Context, userId uuid.UUID, dialogId string) (*dto.AssignDialogResponse, error)
	Commit(ctx context.Context, userId uuid.UUID, dialogId string) (*dto.AssignCommitResponse, error)
	Cancel(ctx context.Context, userId uuid.UUID, dialogId string) error
}

type assignService struct {
	kinds       map[string]*RelationKind
	dialogs     *memory.DialogRepository
	candidates  *memory.CandidateCache
	suggestions *assign.SuggestionCache
	events      EventPublisher
	refresh     IPublisherService
	logger      logger.ILogger
	tracer      trace.Tracer
}

// NewAssignService wires the dialog service. events and refresh may be nil.
func NewAssignService(
	kinds map[string]*RelationKind,
	dialogs *memory.DialogRepository,
	candidates *memory.CandidateCache,
	suggestions *assign.SuggestionCache,
	events EventPublisher,
	refresh IPublisherService,
	log logger.ILogger,
) IAssignService {
	return &assignService{
		kinds:       kinds,
		dialogs:     dialogs,
		candidates:  candidates,
		suggestions: suggestions,
		events:      events,
		refresh:     refresh,
		logger:      log,
		tracer:      otel.Tracer("assign-service"),
	}
}

func (s *assignService) Open(ctx context.Context, userId uuid.UUID, req *dto.OpenAssignRequest) (*dto.AssignDialogResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AssignService.Open", trace.WithAttributes(
		attribute.String("assign.kind", req.Kind),
		attribute.Int("assign.subjects", len(req.SubjectIds)),
	))
	defer span.End()

	kind, ok := s.kinds[req.Kind]
	if !ok {
		return nil, ErrUnknownKind
	}

	if err := kind.CheckSubjects(ctx, userId, req.SubjectIds); err != nil {
		return nil, err
	}
	subjectIDs := uniqueIDs(req.SubjectIds)

	candidates, err := s.candidatesFor(ctx, userId, kind, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("list %s candidates: %w", kind.Name, err)
	}
	refs := make([]assign.ContainerRef, len(candidates))
	for i, c := range candidates {
		refs[i] = c.Ref
	}

	initial, err := assign.NewBuilder(kind.Sources...).Build(ctx, subjectIDs, refs)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	session := assign.NewSession(assign.SessionConfig{
		Kind:          kind.Kind,
		SubjectIDs:    subjectIDs,
		Initial:       initial,
		Store:         kind.Store,
		Factory:       kind.Factory(userId),
		Suggestions:   s.suggestions,
		SuggestionKey: store.SuggestionKey(userId, kind.Name),
		Logger:        s.logger,
	})

	dialog := &store.Dialog{
		ID:         uuid.NewString(),
		UserID:     userId,
		Kind:       kind.Name,
		Query:      req.Query,
		Session:    session,
		Candidates: candidates,
	}

	suggested, ok, err := session.Suggestion(ctx)
	if err != nil {
		s.logger.Warn("AssignService", "Failed to load selection suggestion", map[string]interface{}{
			"user_id": userId,
			"kind":    kind.Name,
			"error":   err.Error(),
		})
	} else if ok {
		dialog.Suggestion = offeredSuggestion(dialog, suggested)
	}

	s.dialogs.Save(dialog)

	s.logger.Debug("AssignService", "Dialog opened", map[string]interface{}{
		"dialog_id":     dialog.ID,
		"kind":          kind.Name,
		"subjects":      len(subjectIDs),
		"candidates":    len(candidates),
		"entries":       len(initial.Entries),
		"indeterminate": len(initial.Indeterminate()),
	})

	return s.render(dialog), nil
}

func (s *assignService) State(ctx context.Context, userId uuid.UUID, dialogId string) (*dto.AssignDialogResponse, error) {
	dialog, err := s.dialog(userId, dialogId)
	if err != nil {
		return nil, err
	}
	dialog.Lock()
	defer dialog.Unlock()

	return s.render(dialog), nil
}

func (s *assignService) Click(ctx context.Context, userId uuid.UUID, dialogId string, req *dto.AssignClickRequest) (*dto.AssignDialogResponse, error) {
	dialog, err := s.dialog(userId, dialogId)
	if err != nil {
		return nil, err
	}
	dialog.Lock()
	defer dialog.Unlock()

	candidate, ok := dialog.Candidate(req.Id.String())
	if !ok {
		return nil, ErrUnknownContainer
	}
	if _, err := dialog.Session.OnClick(candidate.Ref, req.Modifier); err != nil {
		return nil, err
	}
	dialog.Suggestion = nil

	s.dialogs.Save(dialog)
	return s.render(dialog), nil
}

func (s *assignService) CreateContainer(ctx context.Context, userId uuid.UUID, dialogId string, req *dto.CreateContainerRequest) (*dto.AssignDialogResponse, error) {
	dialog, err := s.dialog(userId, dialogId)
	if err != nil {
		return nil, err
	}
	dialog.Lock()
	defer dialog.Unlock()

	parentID := ""
	if req.ParentId != nil {
		if dialog.Kind == store.KindTag {
			return nil, fmt.Errorf("%w: tags cannot be nested", ErrUnknownContainer)
		}
		parentID = req.ParentId.String()
	}

	ref, err := dialog.Session.OnCreateNew(ctx, req.Title, parentID)
	if err != nil {
		return nil, err
	}
	if _, exists := dialog.Candidate(ref.ID); !exists {
		dialog.Candidates = append(dialog.Candidates, store.Candidate{Ref: ref, Title: strings.TrimSpace(req.Title)})
	}
	dialog.Suggestion = nil

	s.dialogs.Save(dialog)
	s.publishRefresh(ctx, userId, dialog.Kind)

	if s.events != nil {
		event := events.BaseEvent{
			Type: events.TypeContainerCreated,
			Data: map[string]interface{}{
				"user_id":      userId.String(),
				"kind":         dialog.Kind,
				"container_id": ref.ID,
				"title":        strings.TrimSpace(req.Title),
			},
			OccurredAt: time.Now(),
		}
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("AssignService", "Failed to publish container event", map[string]interface{}{"error": err.Error()})
		}
	}

	return s.render(dialog), nil
}

func (s *assignService) Reset(ctx context.Context, userId uuid.UUID, dialogId string) (*dto.AssignDialogResponse, error) {
	dialog, err := s.dialog(userId, dialogId)
	if err != nil {
		return nil, err
	}
	dialog.Lock()
	defer dialog.Unlock()

	if _, err := dialog.Session.Reset(); err != nil {
		return nil, err
	}

	s.dialogs.Save(dialog)
	return s.render(dialog), nil
}

func (s *assignService) ApplySuggestion(ctx context.Context, userId uuid.UUID, dialogId string) (*dto.AssignDialogResponse, error) {
	dialog, err := s.dialog(userId, dialogId)
	if err != nil {
		return nil, err
	}
	dialog.Lock()
	defer dialog.Unlock()

	if len(dialog.Suggestion) == 0 {
		return nil, ErrNoSuggestion
	}
	if _, err := dialog.Session.ApplySuggestion(dialog.Suggestion); err != nil {
		return nil, err
	}
	dialog.Suggestion = nil

	s.dialogs.Save(dialog)
	return s.render(dialog), nil
}

func (s *assignService) Commit(ctx context.Context, userId uuid.UUID, dialogId string) (*dto.AssignCommitResponse, error) {
	dialog, err := s.dialog(userId, dialogId)
	if err != nil {
		return nil, err
	}
	dialog.Lock()
	defer dialog.Unlock()

	ctx, span := s.tracer.Start(ctx, "AssignService.Commit", trace.WithAttributes(
		attribute.String("assign.kind", dialog.Kind),
		attribute.String("assign.dialog_id", dialog.ID),
	))
	defer span.End()

	kind := s.kinds[dialog.Kind]
	nouns := dialog.Session.Kind().Nouns

	res, err := dialog.Session.Commit(ctx)
	if err != nil {
		return nil, err
	}
	s.dialogs.Delete(dialog.ID)

	span.SetAttributes(
		attribute.Int("assign.applied", res.Applied),
		attribute.Int("assign.failures", len(res.Failures)),
	)

	titles := dialog.Titles()
	if missing := missingTitles(titles, res); len(missing) > 0 && kind.Titles != nil {
		resolved, err := kind.Titles.Titles(ctx, missing)
		if err != nil {
			s.logger.Warn("AssignService", "Failed to resolve container titles", map[string]interface{}{"error": err.Error()})
		}
		for id, title := range resolved {
			titles[id] = title
		}
	}

	summary := assign.Summarize(len(dialog.Session.SubjectIDs()), nouns, res, titles)

	s.logger.Info("AssignService", "Dialog committed", map[string]interface{}{
		"dialog_id": dialog.ID,
		"kind":      dialog.Kind,
		"applied":   res.Applied,
		"failures":  len(res.Failures),
	})

	if res.Applied > 0 {
		s.publishRefresh(ctx, userId, dialog.Kind)
		s.publishCommitted(ctx, userId, dialog, res)
	}

	return toCommitResponse(res, summary), nil
}

func (s *assignService) Cancel(ctx context.Context, userId uuid.UUID, dialogId string) error {
	dialog, err := s.dialog(userId, dialogId)
	if err != nil {
		return err
	}
	dialog.Lock()
	defer dialog.Unlock()

	dialog.Session.Cancel()
	s.dialogs.Delete(dialog.ID)
	return nil
}

// dialog looks up a dialog owned by userId. Someone else's dialog is reported
// as missing.
func (s *assignService) dialog(userId uuid.UUID, dialogId string) (*store.Dialog, error) {
	dialog, ok := s.dialogs.Get(dialogId)
	if !ok || dialog.UserID != userId {
		return nil, ErrDialogNotFound
	}
	return dialog, nil
}

// candidatesFor lists every container the dialog may touch. The search query
// only narrows what is rendered, so linked containers hidden by it still take
// part in the selection.
func (s *assignService) candidatesFor(ctx context.Context, userId uuid.UUID, kind *RelationKind, subjectIDs []string) ([]store.Candidate, error) {
	all, ok := s.candidates.Get(userId, kind.Name)
	if !ok {
		listed, err := kind.ListCandidates(ctx, userId)
		if err != nil {
			return nil, err
		}
		s.candidates.Set(userId, kind.Name, listed)
		all = listed
	}

	if kind.Exclude != nil {
		all = kind.Exclude(all, subjectIDs)
	}
	return append([]store.Candidate(nil), all...), nil
}

func (s *assignService) publishRefresh(ctx context.Context, userId uuid.UUID, kind string) {
	if s.refresh == nil {
		s.candidates.Invalidate(userId)
		return
	}
	err := s.refresh.Publish(ctx, dto.PublishRelationsChangedMessage{UserId: userId, Kind: kind})
	if err != nil {
		s.logger.Warn("AssignService", "Failed to publish refresh message, invalidating inline", map[string]interface{}{"error": err.Error()})
		s.candidates.Invalidate(userId)
	}
}

func (s *assignService) publishCommitted(ctx context.Context, userId uuid.UUID, dialog *store.Dialog, res assign.Result) {
	if s.events == nil {
		return
	}

	event := events.BaseEvent{
		Type: events.TypeRelationsUpdated,
		Data: map[string]interface{}{
			"user_id":     userId.String(),
			"kind":        dialog.Kind,
			"subject_ids": dialog.Session.SubjectIDs(),
			"added":       res.Added,
			"removed":     res.Removed,
			"applied":     res.Applied,
			"failures":    len(res.Failures),
		},
		OccurredAt: time.Now(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("AssignService", "Failed to publish relations event", map[string]interface{}{"error": err.Error()})
	}
}

func (s *assignService) render(dialog *store.Dialog) *dto.AssignDialogResponse {
	state := dialog.Session.State()

	// containers created in this dialog stay visible whatever the query
	candidates := make([]dto.AssignCandidateResponse, 0, len(dialog.Candidates))
	for _, c := range dialog.Candidates {
		status := state.Status(c.Ref)
		if !matchesQuery(c, dialog.Query) && !status.IsNew {
			continue
		}
		candidates = append(candidates, dto.AssignCandidateResponse{
			Id:       c.Ref.ID,
			ParentId: c.Ref.ParentID,
			Title:    c.Title,
			Status:   string(status.Kind),
			IsNew:    status.IsNew,
		})
	}

	var suggestion []dto.AssignSuggestionItem
	titles := dialog.Titles()
	for _, e := range dialog.Suggestion {
		suggestion = append(suggestion, dto.AssignSuggestionItem{Id: e.ID, Title: titles[e.ID]})
	}

	return &dto.AssignDialogResponse{
		Id:            dialog.ID,
		Kind:          dialog.Kind,
		SubjectIds:    dialog.Session.SubjectIDs(),
		IsMultiSelect: state.IsMultiSelect,
		Candidates:    candidates,
		Suggestion:    suggestion,
	}
}

// offeredSuggestion keeps only suggested containers the dialog still offers.
func offeredSuggestion(dialog *store.Dialog, suggested []assign.Entry) []assign.Entry {
	var out []assign.Entry
	for _, e := range suggested {
		c, ok := dialog.Candidate(e.ID)
		if !ok {
			continue
		}
		out = append(out, assign.Entry{ID: c.Ref.ID, ParentID: c.Ref.ParentID, Op: assign.OpAdd})
	}
	return out
}

func matchesQuery(c store.Candidate, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	return query == "" || strings.Contains(strings.ToLower(c.Title), query)
}

func uniqueIDs(ids []uuid.UUID) []string {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id.String())
	}
	return out
}

func missingTitles(titles map[string]string, res assign.Result) []string {
	var missing []string
	for _, ids := range [][]string{res.Added, res.Removed} {
		for _, id := range ids {
			if _, ok := titles[id]; !ok {
				missing = append(missing, id)
			}
		}
	}
	return missing
}

func toCommitResponse(res assign.Result, summary string) *dto.AssignCommitResponse {
	failures := make([]dto.AssignFailure, 0, len(res.Failures))
	for _, err := range res.Failures {
		f := dto.AssignFailure{Message: err.Error()}
		var mErr *assign.MutationError
		if errors.As(err, &mErr) {
			f.ContainerId = mErr.ContainerID
			f.Op = string(mErr.Op)
			f.Message = mErr.Err.Error()
		}
		failures = append(failures, f)
	}

	added := res.Added
	if added == nil {
		added = []string{}
	}
	removed := res.Removed
	if removed == nil {
		removed = []string{}
	}

	return &dto.AssignCommitResponse{
		Applied:  res.Applied,
		Added:    added,
		Removed:  removed,
		Failures: failures,
		Summary:  summary,
	}
}

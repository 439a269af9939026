package dto

import (
	"github.com/google/uuid"
)

type OpenAssignRequest struct {
	Kind       string      `json:"kind" validate:"required,oneof=notebook tag parent"`
	SubjectIds []uuid.UUID `json:"subject_ids" validate:"required,min=1,dive,required"`
	Query      string      `json:"query" validate:"max=200"`
}

type AssignClickRequest struct {
	Id       uuid.UUID `json:"id" validate:"required"`
	Modifier bool      `json:"modifier"`
}

type CreateContainerRequest struct {
	Title    string     `json:"title" validate:"required,notblank,max=255"`
	ParentId *uuid.UUID `json:"parent_id"`
}

// AssignCandidateResponse is one row of the dialog list.
type AssignCandidateResponse struct {
	Id       string `json:"id"`
	ParentId string `json:"parent_id,omitempty"`
	Title    string `json:"title"`
	// Status is one of "unselected", "indeterminate", "add" or "remove".
	Status string `json:"status"`
	IsNew  bool   `json:"is_new"`
}

type AssignSuggestionItem struct {
	Id    string `json:"id"`
	Title string `json:"title"`
}

type AssignDialogResponse struct {
	Id            string                    `json:"id"`
	Kind          string                    `json:"kind"`
	SubjectIds    []string                  `json:"subject_ids"`
	IsMultiSelect bool                      `json:"is_multi_select"`
	Candidates    []AssignCandidateResponse `json:"candidates"`
	Suggestion    []AssignSuggestionItem    `json:"suggestion,omitempty"`
}

type AssignFailure struct {
	ContainerId string `json:"container_id"`
	Op          string `json:"op"`
	Message     string `json:"message"`
}

type AssignCommitResponse struct {
	Applied  int             `json:"applied"`
	Added    []string        `json:"added"`
	Removed  []string        `json:"removed"`
	Failures []AssignFailure `json:"failures"`
	Summary  string          `json:"summary"`
}

// PublishRelationsChangedMessage travels on the in-process refresh topic.
type PublishRelationsChangedMessage struct {
	UserId uuid.UUID `json:"user_id"`
	Kind   string    `json:"kind"`
}

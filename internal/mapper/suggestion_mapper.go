package mapper

import (
	"encoding/json"
	"fmt"

	"notefiber-assign-be/internal/model"
	"notefiber-assign-be/pkg/assign"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SuggestionMapper struct{}

func NewSuggestionMapper() *SuggestionMapper {
	return &SuggestionMapper{}
}

func (m *SuggestionMapper) ToModel(userId uuid.UUID, kind string, entries []assign.Entry) (*model.AssignSuggestion, error) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("marshal suggestion entries: %w", err)
	}
	return &model.AssignSuggestion{
		UserId:  userId,
		Kind:    kind,
		Entries: datatypes.JSON(raw),
	}, nil
}

func (m *SuggestionMapper) ToEntries(s *model.AssignSuggestion) ([]assign.Entry, error) {
	if s == nil {
		return nil, nil
	}
	var entries []assign.Entry
	if err := json.Unmarshal(s.Entries, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal suggestion entries: %w", err)
	}
	return entries, nil
}

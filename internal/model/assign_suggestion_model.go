package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AssignSuggestion keeps the last committed selection per user and dialog kind.
type AssignSuggestion struct {
	UserId    uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Kind      string         `gorm:"type:varchar(32);primaryKey"`
	Entries   datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (AssignSuggestion) TableName() string {
	return "assign_suggestions"
}

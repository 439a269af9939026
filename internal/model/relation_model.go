package model

import (
	"time"

	"github.com/google/uuid"
)

// NoteNotebook links a note to an additional notebook.
type NoteNotebook struct {
	NotebookId uuid.UUID `gorm:"type:uuid;primaryKey"`
	NoteId     uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (NoteNotebook) TableName() string {
	return "note_notebooks"
}

// NoteTag links a note to a tag.
type NoteTag struct {
	TagId     uuid.UUID `gorm:"type:uuid;primaryKey"`
	NoteId    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (NoteTag) TableName() string {
	return "note_tags"
}

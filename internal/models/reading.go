package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Valid ranges for a blood-pressure reading. Values outside these bounds
// are rejected before persistence.
const (
	SystolicMin  = 50
	SystolicMax  = 250
	DiastolicMin = 30
	DiastolicMax = 150
	PulseMin     = 30
	PulseMax     = 200

	NotesMaxLen = 255
)

// Reading is a single blood-pressure/pulse measurement tied to a user.
type Reading struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Systolic  int            `gorm:"not null" json:"systolic"`
	Diastolic int            `gorm:"not null" json:"diastolic"`
	Pulse     int            `gorm:"not null" json:"pulse"`
	Timestamp time.Time      `gorm:"not null;index" json:"timestamp"`
	Notes     string         `gorm:"size:255" json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

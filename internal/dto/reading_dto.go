package dto

import (
	"time"

	"github.com/bptrack/bptrack-backend/internal/models"
)

type CreateReadingRequest struct {
	Systolic  int        `json:"systolic"`
	Diastolic int        `json:"diastolic"`
	Pulse     int        `json:"pulse"`
	Notes     string     `json:"notes,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// UpdateReadingRequest carries a partial update; nil fields are left as-is.
type UpdateReadingRequest struct {
	Systolic  *int       `json:"systolic"`
	Diastolic *int       `json:"diastolic"`
	Pulse     *int       `json:"pulse"`
	Notes     *string    `json:"notes"`
	Timestamp *time.Time `json:"timestamp"`
}

type ReadingListResponse struct {
	Readings []models.Reading `json:"readings"`
	Total    int64            `json:"total"`
}

// AverageResponse is the arithmetic mean of a user's readings over a date
// range. Zero matching readings yields all-zero averages, which is
// indistinguishable from a true all-zero mean.
type AverageResponse struct {
	Systolic  float64 `json:"systolic"`
	Diastolic float64 `json:"diastolic"`
	Pulse     float64 `json:"pulse"`
}

package services

import (
	"strings"
	"testing"
	"time"

	"github.com/bptrack/bptrack-backend/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addReading(t *testing.T, s *ReadingService, userID uuid.UUID, sys, dia, pulse int, ts time.Time) {
	t.Helper()
	_, err := s.AddReading(userID, &dto.CreateReadingRequest{
		Systolic:  sys,
		Diastolic: dia,
		Pulse:     pulse,
		Timestamp: &ts,
	})
	require.NoError(t, err)
}

func TestAddReading_And_GetByUser(t *testing.T) {
	s := NewReadingService(newTestDB(t))
	userID := uuid.New()

	created, err := s.AddReading(userID, &dto.CreateReadingRequest{
		Systolic: 120, Diastolic: 80, Pulse: 70, Notes: "after lunch",
	})
	require.NoError(t, err)
	assert.Equal(t, 120, created.Systolic)
	assert.False(t, created.Timestamp.IsZero(), "timestamp defaults to now")

	readings, total, err := s.GetReadingsByUser(userID, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, readings, 1)
	assert.Equal(t, 120, readings[0].Systolic)
	assert.Equal(t, 80, readings[0].Diastolic)
	assert.Equal(t, 70, readings[0].Pulse)
	assert.Equal(t, "after lunch", readings[0].Notes)
}

func TestAddReading_OutOfRange(t *testing.T) {
	s := NewReadingService(newTestDB(t))
	userID := uuid.New()

	tests := []struct {
		name            string
		sys, dia, pulse int
		wantFields      []string
	}{
		{"systolic too high", 300, 80, 70, []string{"systolic"}},
		{"diastolic too low", 120, 20, 70, []string{"diastolic"}},
		{"pulse too high", 120, 80, 250, []string{"pulse"}},
		{"all out of range", 20, 200, 10, []string{"systolic", "diastolic", "pulse"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddReading(userID, &dto.CreateReadingRequest{
				Systolic: tt.sys, Diastolic: tt.dia, Pulse: tt.pulse,
			})
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.Len(t, ve.Fields, len(tt.wantFields))
			for i, field := range tt.wantFields {
				assert.True(t, strings.HasPrefix(ve.Fields[i], field),
					"field %d = %q, want prefix %q", i, ve.Fields[i], field)
			}
		})
	}

	_, total, err := s.GetReadingsByUser(userID, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, total, "rejected readings must not be persisted")
}

func TestAddReading_NotesTooLong(t *testing.T) {
	s := NewReadingService(newTestDB(t))

	_, err := s.AddReading(uuid.New(), &dto.CreateReadingRequest{
		Systolic: 120, Diastolic: 80, Pulse: 70,
		Notes: strings.Repeat("x", 256),
	})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestGetReadingsByUser_OrderAndDateRange(t *testing.T) {
	s := NewReadingService(newTestDB(t))
	userID := uuid.New()

	d1 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	addReading(t, s, userID, 110, 70, 60, d1.Add(-time.Second)) // just before range
	addReading(t, s, userID, 120, 80, 70, d1)                   // inclusive lower bound
	addReading(t, s, userID, 130, 85, 75, d1.AddDate(0, 0, 5))  // inside
	addReading(t, s, userID, 140, 90, 80, d2)                   // inclusive upper bound
	addReading(t, s, userID, 150, 95, 85, d2.Add(time.Second))  // just after range

	readings, total, err := s.GetReadingsByUser(userID, &d1, &d2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, readings, 3)

	// Most recent first.
	assert.Equal(t, 140, readings[0].Systolic)
	assert.Equal(t, 130, readings[1].Systolic)
	assert.Equal(t, 120, readings[2].Systolic)

	// Open-ended sides.
	all, _, err := s.GetReadingsByUser(userID, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	fromD2, _, err := s.GetReadingsByUser(userID, &d2, nil)
	require.NoError(t, err)
	assert.Len(t, fromD2, 2)
}

func TestGetReadingsByUser_NoMatches(t *testing.T) {
	s := NewReadingService(newTestDB(t))

	readings, total, err := s.GetReadingsByUser(uuid.New(), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, readings)
	assert.Empty(t, readings)
}

func TestGetAverageReadings(t *testing.T) {
	s := NewReadingService(newTestDB(t))
	userID := uuid.New()

	// Zero readings: documented {0,0,0}, not an error.
	avg, err := s.GetAverageReadings(userID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, &dto.AverageResponse{Systolic: 0, Diastolic: 0, Pulse: 0}, avg)

	now := time.Now().UTC()
	addReading(t, s, userID, 120, 80, 70, now.Add(-time.Hour))
	addReading(t, s, userID, 130, 90, 75, now)

	avg, err = s.GetAverageReadings(userID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 125.0, avg.Systolic)
	assert.Equal(t, 85.0, avg.Diastolic)
	assert.Equal(t, 72.5, avg.Pulse)

	// Another user's readings never leak into the mean.
	addReading(t, s, uuid.New(), 250, 150, 200, now)
	avg, err = s.GetAverageReadings(userID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 125.0, avg.Systolic)
}

func TestGetAverageReadings_DateBounded(t *testing.T) {
	s := NewReadingService(newTestDB(t))
	userID := uuid.New()

	d1 := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)

	addReading(t, s, userID, 200, 120, 100, d1.Add(-24*time.Hour)) // outside
	addReading(t, s, userID, 120, 80, 70, d1)
	addReading(t, s, userID, 130, 90, 75, d2)

	avg, err := s.GetAverageReadings(userID, &d1, &d2)
	require.NoError(t, err)
	assert.Equal(t, 125.0, avg.Systolic)
	assert.Equal(t, 85.0, avg.Diastolic)
	assert.Equal(t, 72.5, avg.Pulse)
}

func TestUpdateReading(t *testing.T) {
	s := NewReadingService(newTestDB(t))
	userID := uuid.New()

	created, err := s.AddReading(userID, &dto.CreateReadingRequest{
		Systolic: 120, Diastolic: 80, Pulse: 70,
	})
	require.NoError(t, err)

	newSystolic := 135
	updated, err := s.UpdateReading(created.ID, &dto.UpdateReadingRequest{Systolic: &newSystolic})
	require.NoError(t, err)
	assert.Equal(t, 135, updated.Systolic)
	assert.Equal(t, 80, updated.Diastolic, "untouched fields keep their values")
	assert.Equal(t, 70, updated.Pulse)

	// Touched numeric fields are re-validated.
	bad := 300
	_, err = s.UpdateReading(created.ID, &dto.UpdateReadingRequest{Systolic: &bad})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	fetched, err := s.GetReadingByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, 135, fetched.Systolic, "rejected update must not persist")
}

func TestDeleteReading(t *testing.T) {
	s := NewReadingService(newTestDB(t))

	created, err := s.AddReading(uuid.New(), &dto.CreateReadingRequest{
		Systolic: 120, Diastolic: 80, Pulse: 70,
	})
	require.NoError(t, err)

	removed, err := s.DeleteReading(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)
	assert.Equal(t, 120, removed.Systolic)

	_, err = s.GetReadingByID(created.ID)
	assert.ErrorIs(t, err, ErrReadingNotFound)
}

func TestUnknownReadingID_IsNotFound(t *testing.T) {
	s := NewReadingService(newTestDB(t))
	missing := uuid.New()

	_, err := s.GetReadingByID(missing)
	assert.ErrorIs(t, err, ErrReadingNotFound)

	v := 120
	_, err = s.UpdateReading(missing, &dto.UpdateReadingRequest{Systolic: &v})
	assert.ErrorIs(t, err, ErrReadingNotFound)

	_, err = s.DeleteReading(missing)
	assert.ErrorIs(t, err, ErrReadingNotFound)
}

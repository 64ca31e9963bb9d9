package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/bptrack/bptrack-backend/internal/dto"
	"github.com/bptrack/bptrack-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrReadingNotFound = errors.New("reading not found")

type ReadingService struct {
	db *gorm.DB
}

func NewReadingService(db *gorm.DB) *ReadingService {
	return &ReadingService{db: db}
}

// AddReading validates the numeric bounds and persists the reading. The
// timestamp defaults to now when the request does not carry one.
func (s *ReadingService) AddReading(userID uuid.UUID, req *dto.CreateReadingRequest) (*models.Reading, error) {
	if err := validateVitals(req.Systolic, req.Diastolic, req.Pulse, req.Notes); err != nil {
		return nil, err
	}

	timestamp := time.Now().UTC()
	if req.Timestamp != nil {
		timestamp = req.Timestamp.UTC()
	}

	reading := models.Reading{
		ID:        uuid.New(),
		UserID:    userID,
		Systolic:  req.Systolic,
		Diastolic: req.Diastolic,
		Pulse:     req.Pulse,
		Timestamp: timestamp,
		Notes:     req.Notes,
	}

	if err := s.db.Create(&reading).Error; err != nil {
		return nil, fmt.Errorf("failed to create reading: %w", err)
	}

	return &reading, nil
}

// GetReadingsByUser returns the user's readings with timestamp in
// [start, end], inclusive at both bounds and open-ended on omitted sides,
// most recent first. No matches is an empty slice, not an error.
func (s *ReadingService) GetReadingsByUser(userID uuid.UUID, start, end *time.Time) ([]models.Reading, int64, error) {
	query := s.scopeUserRange(userID, start, end)

	var total int64
	if err := query.Model(&models.Reading{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count readings: %w", err)
	}

	readings := make([]models.Reading, 0)
	err := s.scopeUserRange(userID, start, end).
		Order("timestamp DESC").
		Find(&readings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch readings: %w", err)
	}

	return readings, total, nil
}

func (s *ReadingService) GetReadingByID(readingID uuid.UUID) (*models.Reading, error) {
	var reading models.Reading
	if err := s.db.First(&reading, "id = ?", readingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReadingNotFound
		}
		return nil, fmt.Errorf("failed to fetch reading: %w", err)
	}
	return &reading, nil
}

// UpdateReading applies only the provided fields and re-validates the
// resulting numeric values before saving.
func (s *ReadingService) UpdateReading(readingID uuid.UUID, req *dto.UpdateReadingRequest) (*models.Reading, error) {
	reading, err := s.GetReadingByID(readingID)
	if err != nil {
		return nil, err
	}

	if req.Systolic != nil {
		reading.Systolic = *req.Systolic
	}
	if req.Diastolic != nil {
		reading.Diastolic = *req.Diastolic
	}
	if req.Pulse != nil {
		reading.Pulse = *req.Pulse
	}
	if req.Notes != nil {
		reading.Notes = *req.Notes
	}
	if req.Timestamp != nil {
		reading.Timestamp = req.Timestamp.UTC()
	}

	if err := validateVitals(reading.Systolic, reading.Diastolic, reading.Pulse, reading.Notes); err != nil {
		return nil, err
	}

	if err := s.db.Save(reading).Error; err != nil {
		return nil, fmt.Errorf("failed to update reading: %w", err)
	}
	return reading, nil
}

// DeleteReading removes the reading and returns the removed record.
func (s *ReadingService) DeleteReading(readingID uuid.UUID) (*models.Reading, error) {
	reading, err := s.GetReadingByID(readingID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(reading).Error; err != nil {
		return nil, fmt.Errorf("failed to delete reading: %w", err)
	}
	return reading, nil
}

// GetAverageReadings computes the mean systolic, diastolic and pulse over the
// user's readings in the optional date range. The averaging happens in the
// store; COALESCE turns the empty-set NULL into the documented {0,0,0}.
func (s *ReadingService) GetAverageReadings(userID uuid.UUID, start, end *time.Time) (*dto.AverageResponse, error) {
	var avg dto.AverageResponse
	err := s.scopeUserRange(userID, start, end).
		Model(&models.Reading{}).
		Select("COALESCE(AVG(systolic), 0) AS systolic, COALESCE(AVG(diastolic), 0) AS diastolic, COALESCE(AVG(pulse), 0) AS pulse").
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate readings: %w", err)
	}
	return &avg, nil
}

func (s *ReadingService) scopeUserRange(userID uuid.UUID, start, end *time.Time) *gorm.DB {
	query := s.db.Where("user_id = ?", userID)
	if start != nil {
		query = query.Where("timestamp >= ?", *start)
	}
	if end != nil {
		query = query.Where("timestamp <= ?", *end)
	}
	return query
}

func validateVitals(systolic, diastolic, pulse int, notes string) error {
	var fields []string
	if systolic < models.SystolicMin || systolic > models.SystolicMax {
		fields = append(fields, fmt.Sprintf("systolic must be between %d and %d", models.SystolicMin, models.SystolicMax))
	}
	if diastolic < models.DiastolicMin || diastolic > models.DiastolicMax {
		fields = append(fields, fmt.Sprintf("diastolic must be between %d and %d", models.DiastolicMin, models.DiastolicMax))
	}
	if pulse < models.PulseMin || pulse > models.PulseMax {
		fields = append(fields, fmt.Sprintf("pulse must be between %d and %d", models.PulseMin, models.PulseMax))
	}
	if len(notes) > models.NotesMaxLen {
		fields = append(fields, fmt.Sprintf("notes must be at most %d characters", models.NotesMaxLen))
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

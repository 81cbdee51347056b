package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ksebtracker/backend/services/tracker-service/internal/dates"
	"ksebtracker/backend/services/tracker-service/internal/models"
	"ksebtracker/backend/services/tracker-service/internal/repository"
)

var (
	// ErrInvalidReadingDate is returned for a missing or unparseable reading date.
	ErrInvalidReadingDate = errors.New("readings: reading date is required")
	// ErrInvalidReadingValue is returned for a non-positive meter reading.
	ErrInvalidReadingValue = errors.New("readings: meter reading must be positive")
	// ErrLowerThanLatest means a new reading on a later date is below the latest stored one.
	ErrLowerThanLatest = errors.New("readings: reading is lower than the latest recorded reading")
)

// OverwriteConfirmationError signals that a reading already exists for the date and the
// caller must confirm replacing it. Carries the existing record so handlers can show it.
type OverwriteConfirmationError struct {
	Existing models.DailyReading
}

func (e *OverwriteConfirmationError) Error() string {
	return fmt.Sprintf("readings: a reading of %.2f already exists for %s, confirmation required to overwrite",
		e.Existing.Reading, dates.FormatDisplay(e.Existing.Date))
}

// LatestReading is the most recent reading with its delta from the one before it.
type LatestReading struct {
	Reading      models.DailyReading
	HasPrevious  bool
	DeltaUnits   float64
	PreviousDate time.Time
}

// ReadingService manages daily meter readings and keeps the open-cycle estimate fresh.
type ReadingService struct {
	readings  ReadingStore
	estimator *Estimator
	events    EventPublisher
	logger    *zap.Logger
}

// NewReadingService builds the service. events may be nil.
func NewReadingService(readings ReadingStore, estimator *Estimator, events EventPublisher, logger *zap.Logger) *ReadingService {
	return &ReadingService{
		readings:  readings,
		estimator: estimator,
		events:    events,
		logger:    logger,
	}
}

// Save records a meter reading for a calendar day. One reading per day: saving over an
// existing record requires confirmOverwrite, otherwise OverwriteConfirmationError is
// returned with the stored value. A reading dated after the latest stored reading must not
// be lower than it; re-dating an earlier day is allowed for corrections.
func (s *ReadingService) Save(ctx context.Context, userID int64, date time.Time, value float64, confirmOverwrite bool) (*models.DailyReading, error) {
	if date.IsZero() {
		return nil, ErrInvalidReadingDate
	}
	if value <= 0 {
		return nil, ErrInvalidReadingValue
	}

	day := dates.Day(date)

	existing, err := s.readings.GetByDate(ctx, userID, day)
	switch {
	case err == nil:
		if !confirmOverwrite {
			return nil, &OverwriteConfirmationError{Existing: *existing}
		}
	case errors.Is(err, repository.ErrReadingNotFound):
		existing = nil
	default:
		return nil, err
	}

	latest, err := s.readings.ListOrderedByDate(ctx, userID, true, 1)
	if err != nil {
		return nil, err
	}
	if len(latest) > 0 && day.After(dates.Day(latest[0].Date)) && value < latest[0].Reading {
		return nil, ErrLowerThanLatest
	}

	reading := &models.DailyReading{
		UserID:  userID,
		Date:    day,
		Reading: value,
	}
	if err := s.readings.Upsert(ctx, reading); err != nil {
		return nil, err
	}

	s.logger.Info("daily reading saved",
		zap.Int64("user_id", userID),
		zap.String("reading_date", dates.FormatStore(day)),
		zap.Float64("reading", value),
		zap.Bool("overwrite", existing != nil),
	)

	if s.events != nil {
		s.events.Publish(userID, EventReadingSaved, map[string]interface{}{
			"reading_date": dates.FormatStore(day),
			"reading":      value,
		})
	}

	// Refresh the cached estimate so the next GET and the live feed see the new reading.
	// An estimate failure here is logged, not surfaced: the reading itself is committed.
	if s.estimator != nil {
		estimate, err := s.estimator.Estimate(ctx, userID)
		if err != nil {
			s.logger.Warn("failed to refresh estimate after reading save",
				zap.Int64("user_id", userID), zap.Error(err))
		} else if s.events != nil {
			s.events.Publish(userID, EventEstimateUpdated, map[string]interface{}{
				"units":      estimate.Units,
				"total_bill": estimate.Breakdown.TotalBill,
			})
		}
	}

	return reading, nil
}

// LatestWithDelta returns the newest reading and the consumption since the one before it.
func (s *ReadingService) LatestWithDelta(ctx context.Context, userID int64) (*LatestReading, error) {
	recent, err := s.readings.ListOrderedByDate(ctx, userID, true, 2)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, nil
	}

	result := &LatestReading{Reading: recent[0]}
	if len(recent) > 1 {
		result.HasPrevious = true
		result.DeltaUnits = recent[0].Reading - recent[1].Reading
		result.PreviousDate = dates.Day(recent[1].Date)
	}
	return result, nil
}

// List returns stored readings, newest first.
func (s *ReadingService) List(ctx context.Context, userID int64, limit int) ([]models.DailyReading, error) {
	return s.readings.ListOrderedByDate(ctx, userID, true, limit)
}

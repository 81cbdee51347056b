package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ksebtracker/backend/services/tracker-service/internal/models"
)

// ErrReadingNotFound represents a missing reading for a date key.
var ErrReadingNotFound = errors.New("reading not found")

const defaultScanLimit = 500

// ReadingRepository persists daily meter readings keyed by (user, date).
type ReadingRepository struct {
	db *sql.DB
}

// NewReadingRepository returns repository instance.
func NewReadingRepository(db *sql.DB) *ReadingRepository {
	return &ReadingRepository{db: db}
}

// Upsert inserts or overwrites the reading for its date key.
func (r *ReadingRepository) Upsert(ctx context.Context, reading *models.DailyReading) error {
	const query = `
		INSERT INTO daily_readings (user_id, reading_date, reading, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, reading_date)
		DO UPDATE SET reading = EXCLUDED.reading, created_at = NOW()
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		reading.UserID,
		reading.Date,
		reading.Reading,
	).Scan(&reading.CreatedAt)
}

// GetByDate fetches the reading for an exact date key.
func (r *ReadingRepository) GetByDate(ctx context.Context, userID int64, date time.Time) (*models.DailyReading, error) {
	const query = `
		SELECT user_id, reading_date, reading, created_at
		FROM daily_readings
		WHERE user_id = $1 AND reading_date = $2
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, userID, date)
	var reading models.DailyReading
	if err := row.Scan(&reading.UserID, &reading.Date, &reading.Reading, &reading.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReadingNotFound
		}
		return nil, err
	}
	return &reading, nil
}

// ListOrderedByDate returns readings ordered by date.
func (r *ReadingRepository) ListOrderedByDate(ctx context.Context, userID int64, descending bool, limit int) ([]models.DailyReading, error) {
	if limit <= 0 {
		limit = defaultScanLimit
	}
	query := fmt.Sprintf(`
		SELECT user_id, reading_date, reading, created_at
		FROM daily_readings
		WHERE user_id = $1
		ORDER BY reading_date %s
		LIMIT $2
	`, direction(descending))
	return r.scan(ctx, query, userID, limit)
}

// ListInRange returns readings with date in [start, end], bounds inclusive.
func (r *ReadingRepository) ListInRange(ctx context.Context, userID int64, start, end time.Time, descending bool, limit int) ([]models.DailyReading, error) {
	if limit <= 0 {
		limit = defaultScanLimit
	}
	query := fmt.Sprintf(`
		SELECT user_id, reading_date, reading, created_at
		FROM daily_readings
		WHERE user_id = $1 AND reading_date >= $2 AND reading_date <= $3
		ORDER BY reading_date %s
		LIMIT $4
	`, direction(descending))
	return r.scan(ctx, query, userID, start, end, limit)
}

func (r *ReadingRepository) scan(ctx context.Context, query string, args ...interface{}) ([]models.DailyReading, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []models.DailyReading
	for rows.Next() {
		var reading models.DailyReading
		if err := rows.Scan(&reading.UserID, &reading.Date, &reading.Reading, &reading.CreatedAt); err != nil {
			return nil, err
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return readings, nil
}

func direction(descending bool) string {
	if descending {
		return "DESC"
	}
	return "ASC"
}

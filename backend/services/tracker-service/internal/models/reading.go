package models

import "time"

// DailyReading is one cumulative meter value recorded for a calendar day. The date is the
// per-user key; saving again for the same day overwrites.
type DailyReading struct {
	UserID    int64     `db:"user_id"`
	Date      time.Time `db:"reading_date"`
	Reading   float64   `db:"reading"`
	CreatedAt time.Time `db:"created_at"`
}

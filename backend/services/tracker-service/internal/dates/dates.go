// Package dates holds the calendar-day transforms shared by the tracker: storage format is
// YYYY-MM-DD, human-facing strings use DD-MM-YYYY.
package dates

import "time"

const (
	storeLayout   = "2006-01-02"
	displayLayout = "02-01-2006"
)

// ParseStore parses a YYYY-MM-DD string into a UTC calendar day.
func ParseStore(s string) (time.Time, error) {
	return time.ParseInLocation(storeLayout, s, time.UTC)
}

// FormatStore renders a date in storage format.
func FormatStore(t time.Time) string {
	return t.Format(storeLayout)
}

// ParseDisplay parses a DD-MM-YYYY string into a UTC calendar day.
func ParseDisplay(s string) (time.Time, error) {
	return time.ParseInLocation(displayLayout, s, time.UTC)
}

// FormatDisplay renders a date in display format.
func FormatDisplay(t time.Time) string {
	return t.Format(displayLayout)
}

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextDay returns the calendar day after t.
func NextDay(t time.Time) time.Time {
	return Day(t).AddDate(0, 0, 1)
}

// ProjectCycleEnd estimates the end of a bi-monthly cycle starting at t. Display only, the
// real end date is fixed by finalization.
func ProjectCycleEnd(t time.Time) time.Time {
	return Day(t).AddDate(0, 2, 0)
}

package service

import (
	"context"
	"errors"
	"time"

	"ksebtracker/backend/services/tracker-service/internal/dates"
	"ksebtracker/backend/services/tracker-service/internal/models"
	"ksebtracker/backend/services/tracker-service/internal/repository"
)

// CycleSource records which rule produced the cycle start.
type CycleSource string

const (
	// SourceOfficialBill means the start follows the latest finalized bill.
	SourceOfficialBill CycleSource = "official_bill"
	// SourceFirstReading means no bill exists and the earliest reading opens the cycle.
	SourceFirstReading CycleSource = "first_daily_reading"
	// SourceDefaultToday means no data exists at all.
	SourceDefaultToday CycleSource = "default_today"
)

// CycleStart identifies the currently open billing cycle.
type CycleStart struct {
	Date    time.Time
	Reading float64
	Source  CycleSource
}

// CycleResolver determines the open cycle's start point from stored bills and readings.
type CycleResolver struct {
	readings ReadingStore
	bills    BillStore
	now      func() time.Time
}

// NewCycleResolver builds resolver.
func NewCycleResolver(readings ReadingStore, bills BillStore) *CycleResolver {
	return &CycleResolver{
		readings: readings,
		bills:    bills,
		now:      time.Now,
	}
}

// Resolve returns the open cycle start. Priority: day after the latest bill's end date with
// that bill's end reading; else the earliest daily reading; else today with reading zero.
func (r *CycleResolver) Resolve(ctx context.Context, userID int64) (CycleStart, error) {
	latest, err := r.bills.Latest(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrBillNotFound) {
		return CycleStart{}, err
	}
	return r.resolveFrom(ctx, userID, latest)
}

// ResolveBefore behaves like Resolve but considers only bills ending strictly before the
// given date. Finalization uses it so overwriting the newest bill resolves against its
// predecessor.
func (r *CycleResolver) ResolveBefore(ctx context.Context, userID int64, before time.Time) (CycleStart, error) {
	prev, err := r.bills.LatestEndingBefore(ctx, userID, before)
	if err != nil && !errors.Is(err, repository.ErrBillNotFound) {
		return CycleStart{}, err
	}
	return r.resolveFrom(ctx, userID, prev)
}

func (r *CycleResolver) resolveFrom(ctx context.Context, userID int64, latestBill *models.OfficialBill) (CycleStart, error) {
	if latestBill != nil {
		return CycleStart{
			Date:    dates.NextDay(latestBill.CycleEndDate),
			Reading: latestBill.EndMeterReading,
			Source:  SourceOfficialBill,
		}, nil
	}

	first, err := r.readings.ListOrderedByDate(ctx, userID, false, 1)
	if err != nil {
		return CycleStart{}, err
	}
	if len(first) > 0 {
		return CycleStart{
			Date:    dates.Day(first[0].Date),
			Reading: first[0].Reading,
			Source:  SourceFirstReading,
		}, nil
	}

	return CycleStart{
		Date:    dates.Day(r.now()),
		Reading: 0,
		Source:  SourceDefaultToday,
	}, nil
}

package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"ksebtracker/backend/services/tracker-service/internal/dates"
	"ksebtracker/backend/services/tracker-service/internal/models"
	"ksebtracker/backend/services/tracker-service/internal/repository"
)

// Shared in-memory fakes for the service tests. They mirror the repository ordering and
// sentinel contracts so services can be exercised without Postgres or Redis.

func day(t string) time.Time {
	parsed, err := dates.ParseStore(t)
	if err != nil {
		panic(err)
	}
	return parsed
}

type fakeReadingStore struct {
	readings map[string]models.DailyReading
}

func newFakeReadingStore() *fakeReadingStore {
	return &fakeReadingStore{readings: make(map[string]models.DailyReading)}
}

func (s *fakeReadingStore) add(date string, value float64) {
	s.readings[date] = models.DailyReading{UserID: 1, Date: day(date), Reading: value}
}

func (s *fakeReadingStore) Upsert(_ context.Context, reading *models.DailyReading) error {
	reading.CreatedAt = time.Now().UTC()
	s.readings[dates.FormatStore(reading.Date)] = *reading
	return nil
}

func (s *fakeReadingStore) GetByDate(_ context.Context, _ int64, date time.Time) (*models.DailyReading, error) {
	reading, ok := s.readings[dates.FormatStore(date)]
	if !ok {
		return nil, repository.ErrReadingNotFound
	}
	return &reading, nil
}

func (s *fakeReadingStore) ordered(descending bool) []models.DailyReading {
	out := make([]models.DailyReading, 0, len(s.readings))
	for _, reading := range s.readings {
		out = append(out, reading)
	}
	sort.Slice(out, func(i, j int) bool {
		if descending {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func (s *fakeReadingStore) ListOrderedByDate(_ context.Context, _ int64, descending bool, limit int) ([]models.DailyReading, error) {
	out := s.ordered(descending)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeReadingStore) ListInRange(_ context.Context, _ int64, start, end time.Time, descending bool, limit int) ([]models.DailyReading, error) {
	var out []models.DailyReading
	for _, reading := range s.ordered(descending) {
		if reading.Date.Before(start) || reading.Date.After(end) {
			continue
		}
		out = append(out, reading)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func billRecord(start, end string, startReading, endReading, actual float64) models.OfficialBill {
	return models.OfficialBill{
		UserID:            1,
		CycleStartDate:    day(start),
		CycleEndDate:      day(end),
		StartMeterReading: startReading,
		EndMeterReading:   endReading,
		UnitsConsumed:     endReading - startReading,
		ActualAmount:      actual,
	}
}

type fakeBillStore struct {
	bills map[string]models.OfficialBill
}

func newFakeBillStore() *fakeBillStore {
	return &fakeBillStore{bills: make(map[string]models.OfficialBill)}
}

func (s *fakeBillStore) add(bill models.OfficialBill) {
	if bill.UserID == 0 {
		bill.UserID = 1
	}
	s.bills[dates.FormatStore(bill.CycleEndDate)] = bill
}

func (s *fakeBillStore) Upsert(_ context.Context, bill *models.OfficialBill) error {
	bill.CreatedAt = time.Now().UTC()
	s.bills[dates.FormatStore(bill.CycleEndDate)] = *bill
	return nil
}

func (s *fakeBillStore) ordered(descending bool) []models.OfficialBill {
	out := make([]models.OfficialBill, 0, len(s.bills))
	for _, bill := range s.bills {
		out = append(out, bill)
	}
	sort.Slice(out, func(i, j int) bool {
		if descending {
			return out[i].CycleEndDate.After(out[j].CycleEndDate)
		}
		return out[i].CycleEndDate.Before(out[j].CycleEndDate)
	})
	return out
}

func (s *fakeBillStore) Latest(_ context.Context, _ int64) (*models.OfficialBill, error) {
	ordered := s.ordered(true)
	if len(ordered) == 0 {
		return nil, repository.ErrBillNotFound
	}
	return &ordered[0], nil
}

func (s *fakeBillStore) LatestEndingBefore(_ context.Context, _ int64, before time.Time) (*models.OfficialBill, error) {
	for _, bill := range s.ordered(true) {
		if bill.CycleEndDate.Before(before) {
			found := bill
			return &found, nil
		}
	}
	return nil, repository.ErrBillNotFound
}

func (s *fakeBillStore) ListOrderedByEndDate(_ context.Context, _ int64, descending bool, limit int) ([]models.OfficialBill, error) {
	out := s.ordered(descending)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeBillStore) ListAll(_ context.Context, _ int64) ([]models.OfficialBill, error) {
	return s.ordered(false), nil
}

// fakeTariff returns a linear breakdown so tests can predict totals without duplicating the
// slab tables: total is units * 10 with everything attributed to the energy charge.
type fakeTariff struct {
	calls int
	err   error
}

func (t *fakeTariff) Calculate(_ context.Context, units float64) (*models.ChargeBreakdown, error) {
	t.calls++
	if t.err != nil {
		return nil, t.err
	}
	return &models.ChargeBreakdown{
		TotalUnits:   units,
		EnergyCharge: units * 10,
		TotalBill:    units * 10,
	}, nil
}

type fakeCache struct {
	snapshots map[int64]models.EstimateSnapshot
	saveErr   error
}

func newFakeCache() *fakeCache {
	return &fakeCache{snapshots: make(map[int64]models.EstimateSnapshot)}
}

func (c *fakeCache) Save(_ context.Context, userID int64, snapshot models.EstimateSnapshot) error {
	if c.saveErr != nil {
		return c.saveErr
	}
	c.snapshots[userID] = snapshot
	return nil
}

func (c *fakeCache) Get(_ context.Context, userID int64) (*models.EstimateSnapshot, error) {
	snapshot, ok := c.snapshots[userID]
	if !ok {
		return nil, nil
	}
	return &snapshot, nil
}

func (c *fakeCache) Delete(_ context.Context, userID int64) error {
	delete(c.snapshots, userID)
	return nil
}

func snapshotWithTotal(total float64) models.EstimateSnapshot {
	return models.EstimateSnapshot{TotalBill: total, ComputedAt: time.Now().UTC()}
}

type publishedEvent struct {
	userID    int64
	eventType string
	payload   interface{}
}

type fakeEvents struct {
	events []publishedEvent
}

func (e *fakeEvents) Publish(userID int64, eventType string, payload interface{}) {
	e.events = append(e.events, publishedEvent{userID: userID, eventType: eventType, payload: payload})
}

func (e *fakeEvents) types() []string {
	out := make([]string, 0, len(e.events))
	for _, event := range e.events {
		out = append(out, event.eventType)
	}
	return out
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

type readingsFixture struct {
	readings *fakeReadingStore
	tariff   *fakeTariff
	events   *fakeEvents
	service  *ReadingService
}

func newReadingsFixture(today string) *readingsFixture {
	f := &readingsFixture{
		readings: newFakeReadingStore(),
		tariff:   &fakeTariff{},
		events:   &fakeEvents{},
	}
	estimator := newTestEstimator(f.readings, newFakeBillStore(), f.tariff, nil, today)
	f.service = NewReadingService(f.readings, estimator, f.events, testLogger())
	return f
}

func TestSaveReadingAndEvents(t *testing.T) {
	f := newReadingsFixture("2024-01-15")

	saved, err := f.service.Save(context.Background(), 1, day("2024-01-15"), 512.5, false)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.Reading != 512.5 || !saved.Date.Equal(day("2024-01-15")) {
		t.Errorf("saved = %+v", saved)
	}

	types := f.events.types()
	if len(types) != 2 || types[0] != EventReadingSaved || types[1] != EventEstimateUpdated {
		t.Errorf("events = %v, want [reading_saved estimate_updated]", types)
	}
}

func TestSaveReadingValidation(t *testing.T) {
	f := newReadingsFixture("2024-01-15")

	if _, err := f.service.Save(context.Background(), 1, day("2024-01-15"), -1, false); !errors.Is(err, ErrInvalidReadingValue) {
		t.Errorf("negative value: err = %v, want ErrInvalidReadingValue", err)
	}
	if _, err := f.service.Save(context.Background(), 1, day("2024-01-15"), 0, false); !errors.Is(err, ErrInvalidReadingValue) {
		t.Errorf("zero value: err = %v, want ErrInvalidReadingValue", err)
	}
	if len(f.readings.readings) != 0 {
		t.Errorf("readings persisted = %d, want none after rejected saves", len(f.readings.readings))
	}
	if _, err := f.service.Save(context.Background(), 1, time.Time{}, 10, false); !errors.Is(err, ErrInvalidReadingDate) {
		t.Errorf("zero date: err = %v, want ErrInvalidReadingDate", err)
	}
}

func TestSaveReadingOverwriteNeedsConfirmation(t *testing.T) {
	f := newReadingsFixture("2024-01-15")
	f.readings.add("2024-01-10", 500)

	_, err := f.service.Save(context.Background(), 1, day("2024-01-10"), 505, false)
	var confirm *OverwriteConfirmationError
	if !errors.As(err, &confirm) {
		t.Fatalf("err = %v, want OverwriteConfirmationError", err)
	}
	if confirm.Existing.Reading != 500 {
		t.Errorf("existing reading = %v, want 500", confirm.Existing.Reading)
	}

	saved, err := f.service.Save(context.Background(), 1, day("2024-01-10"), 505, true)
	if err != nil {
		t.Fatalf("confirmed Save: %v", err)
	}
	if saved.Reading != 505 {
		t.Errorf("reading = %v, want 505 after overwrite", saved.Reading)
	}
	got, _ := f.readings.GetByDate(context.Background(), 1, day("2024-01-10"))
	if got.Reading != 505 {
		t.Errorf("stored reading = %v, want 505", got.Reading)
	}
}

func TestSaveReadingRejectsRegressionOnNewerDate(t *testing.T) {
	f := newReadingsFixture("2024-01-15")
	f.readings.add("2024-01-10", 500)

	if _, err := f.service.Save(context.Background(), 1, day("2024-01-12"), 490, false); !errors.Is(err, ErrLowerThanLatest) {
		t.Fatalf("err = %v, want ErrLowerThanLatest", err)
	}

	// Correcting an earlier day below the latest is allowed.
	if _, err := f.service.Save(context.Background(), 1, day("2024-01-05"), 480, false); err != nil {
		t.Fatalf("backfill Save: %v", err)
	}
}

func TestLatestWithDelta(t *testing.T) {
	f := newReadingsFixture("2024-01-15")

	latest, err := f.service.LatestWithDelta(context.Background(), 1)
	if err != nil {
		t.Fatalf("LatestWithDelta: %v", err)
	}
	if latest != nil {
		t.Fatalf("latest = %+v, want nil with no readings", latest)
	}

	f.readings.add("2024-01-10", 500)
	f.readings.add("2024-01-12", 512)

	latest, err = f.service.LatestWithDelta(context.Background(), 1)
	if err != nil {
		t.Fatalf("LatestWithDelta: %v", err)
	}
	if !latest.HasPrevious || latest.DeltaUnits != 12 {
		t.Errorf("delta = %+v, want 12 units since previous", latest)
	}
	if !latest.PreviousDate.Equal(day("2024-01-10")) {
		t.Errorf("previous date = %v, want 2024-01-10", latest.PreviousDate)
	}
}

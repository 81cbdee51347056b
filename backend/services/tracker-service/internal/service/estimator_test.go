package service

import (
	"context"
	"testing"
	"time"
)

func newTestEstimator(readings *fakeReadingStore, bills *fakeBillStore, tariff *fakeTariff, cache *fakeCache, today string) *Estimator {
	resolver := fixedResolver(readings, bills, today)
	var estimateCache EstimateCache
	if cache != nil {
		estimateCache = cache
	}
	estimator := NewEstimator(resolver, readings, tariff, estimateCache, nil, testLogger())
	estimator.now = func() time.Time { return day(today) }
	return estimator
}

func TestEstimateAfterBill(t *testing.T) {
	readings := newFakeReadingStore()
	readings.add("2024-02-15", 1200)
	bills := newFakeBillStore()
	bills.add(billRecord("2023-12-01", "2024-01-31", 800, 1000, 2500))
	tariff := &fakeTariff{}
	cache := newFakeCache()

	estimate, err := newTestEstimator(readings, bills, tariff, cache, "2024-02-20").Estimate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if estimate.Units != 200 {
		t.Errorf("units = %v, want 200", estimate.Units)
	}
	if !estimate.CycleStart.Equal(day("2024-02-01")) {
		t.Errorf("cycle start = %v, want 2024-02-01", estimate.CycleStart)
	}
	if !estimate.CycleEndProjected.Equal(day("2024-04-01")) {
		t.Errorf("projected end = %v, want 2024-04-01", estimate.CycleEndProjected)
	}
	if estimate.Breakdown.TotalBill != 2000 {
		t.Errorf("total = %v, want 2000", estimate.Breakdown.TotalBill)
	}
	if tariff.calls != 1 {
		t.Errorf("tariff calls = %d, want 1", tariff.calls)
	}

	snapshot, _ := cache.Get(context.Background(), 1)
	if snapshot == nil || snapshot.TotalBill != 2000 {
		t.Errorf("cached snapshot = %+v, want total 2000", snapshot)
	}
}

func TestEstimateFromFirstReading(t *testing.T) {
	readings := newFakeReadingStore()
	readings.add("2024-01-01", 500)
	readings.add("2024-01-10", 530)
	tariff := &fakeTariff{}

	estimate, err := newTestEstimator(readings, newFakeBillStore(), tariff, nil, "2024-01-15").Estimate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if estimate.Source != SourceFirstReading {
		t.Errorf("source = %s, want %s", estimate.Source, SourceFirstReading)
	}
	if estimate.Units != 30 {
		t.Errorf("units = %v, want 30", estimate.Units)
	}
	if !estimate.LatestReadingDate.Equal(day("2024-01-10")) {
		t.Errorf("latest reading date = %v, want 2024-01-10", estimate.LatestReadingDate)
	}
}

func TestEstimateWithoutReadingsSkipsTariff(t *testing.T) {
	tariff := &fakeTariff{}

	estimate, err := newTestEstimator(newFakeReadingStore(), newFakeBillStore(), tariff, nil, "2024-03-05").Estimate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if estimate.HasReadings {
		t.Error("HasReadings = true, want false")
	}
	if estimate.Units != 0 || estimate.Breakdown.TotalBill != 0 {
		t.Errorf("units/total = %v/%v, want 0/0", estimate.Units, estimate.Breakdown.TotalBill)
	}
	if tariff.calls != 0 {
		t.Errorf("tariff calls = %d, want 0", tariff.calls)
	}
	if estimate.Advisory.Severity != SeverityNoData {
		t.Errorf("advisory = %s, want %s", estimate.Advisory.Severity, SeverityNoData)
	}
}

func TestEstimateClampsNegativeUnits(t *testing.T) {
	readings := newFakeReadingStore()
	readings.add("2024-02-10", 950)
	bills := newFakeBillStore()
	bills.add(billRecord("2023-12-01", "2024-01-31", 800, 1000, 2500))
	tariff := &fakeTariff{}

	estimate, err := newTestEstimator(readings, bills, tariff, nil, "2024-02-20").Estimate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if estimate.Units != 0 {
		t.Errorf("units = %v, want 0 after clamp", estimate.Units)
	}
	if !estimate.Anomaly {
		t.Error("Anomaly = false, want true")
	}
}

func TestEstimateIgnoresReadingsBeforeCycleStart(t *testing.T) {
	readings := newFakeReadingStore()
	readings.add("2024-01-15", 900) // inside the already-billed cycle
	bills := newFakeBillStore()
	bills.add(billRecord("2023-12-01", "2024-01-31", 800, 1000, 2500))
	tariff := &fakeTariff{}

	estimate, err := newTestEstimator(readings, bills, tariff, nil, "2024-02-20").Estimate(context.Background(), 1)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if estimate.HasReadings {
		t.Error("HasReadings = true, want false for pre-cycle readings")
	}
	if tariff.calls != 0 {
		t.Errorf("tariff calls = %d, want 0", tariff.calls)
	}
}

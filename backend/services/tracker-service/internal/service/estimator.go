package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ksebtracker/backend/services/tracker-service/internal/dates"
	"ksebtracker/backend/services/tracker-service/internal/models"
)

// Estimate is the current open-cycle consumption picture with its cost breakdown.
type Estimate struct {
	CycleStart        time.Time
	CycleEndProjected time.Time
	StartReading      float64
	Source            CycleSource
	LatestReadingDate time.Time
	LatestReading     float64
	HasReadings       bool
	Units             float64
	Anomaly           bool
	Breakdown         models.ChargeBreakdown
	Advisory          Advisory
}

// Estimator computes units consumed in the open cycle and their estimated cost.
type Estimator struct {
	resolver *CycleResolver
	readings ReadingStore
	tariff   TariffCalculator
	cache    EstimateCache
	bands    []AdvisoryBand
	logger   *zap.Logger
	now      func() time.Time
}

// NewEstimator builds estimator. cache may be nil.
func NewEstimator(resolver *CycleResolver, readings ReadingStore, tariff TariffCalculator, cache EstimateCache, bands []AdvisoryBand, logger *zap.Logger) *Estimator {
	if len(bands) == 0 {
		bands = DefaultAdvisoryBands()
	}
	return &Estimator{
		resolver: resolver,
		readings: readings,
		tariff:   tariff,
		cache:    cache,
		bands:    bands,
		logger:   logger,
		now:      time.Now,
	}
}

// Estimate resolves the open cycle, derives units consumed so far and fetches the tariff
// breakdown. With no reading inside the cycle the breakdown stays zero and no tariff call is
// made. The result snapshot is cached as the finalizer's estimate-vs-actual baseline.
func (e *Estimator) Estimate(ctx context.Context, userID int64) (*Estimate, error) {
	start, err := e.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	estimate := &Estimate{
		CycleStart:        start.Date,
		CycleEndProjected: dates.ProjectCycleEnd(start.Date),
		StartReading:      start.Reading,
		Source:            start.Source,
	}

	latest, err := e.readings.ListOrderedByDate(ctx, userID, true, 1)
	if err != nil {
		return nil, err
	}

	var inCycle []models.DailyReading
	if len(latest) > 0 {
		inCycle, err = e.readings.ListInRange(ctx, userID, start.Date, dates.Day(latest[0].Date), true, 1)
		if err != nil {
			return nil, err
		}
	}

	if len(inCycle) == 0 {
		estimate.Advisory = ClassifyUnits(e.bands, 0)
		e.saveSnapshot(ctx, userID, estimate)
		return estimate, nil
	}

	estimate.HasReadings = true
	estimate.LatestReadingDate = dates.Day(inCycle[0].Date)
	estimate.LatestReading = inCycle[0].Reading

	units := inCycle[0].Reading - start.Reading
	if units < 0 {
		e.logger.Warn("negative units in open cycle, clamping to zero",
			zap.Int64("user_id", userID),
			zap.Float64("cycle_reading", inCycle[0].Reading),
			zap.Float64("start_reading", start.Reading),
		)
		units = 0
		estimate.Anomaly = true
	}
	estimate.Units = units

	breakdown, err := e.tariff.Calculate(ctx, units)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTariffUnavailable, err)
	}
	estimate.Breakdown = *breakdown
	estimate.Advisory = ClassifyUnits(e.bands, units)

	e.saveSnapshot(ctx, userID, estimate)
	return estimate, nil
}

// saveSnapshot is best-effort: a cache failure never fails the estimate itself.
func (e *Estimator) saveSnapshot(ctx context.Context, userID int64, estimate *Estimate) {
	if e.cache == nil {
		return
	}
	snapshot := models.EstimateSnapshot{
		Units:      estimate.Units,
		TotalBill:  estimate.Breakdown.TotalBill,
		ComputedAt: e.now().UTC(),
	}
	if err := e.cache.Save(ctx, userID, snapshot); err != nil {
		e.logger.Warn("failed to cache estimate snapshot", zap.Int64("user_id", userID), zap.Error(err))
	}
}

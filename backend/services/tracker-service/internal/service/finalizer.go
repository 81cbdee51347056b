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
	// ErrInvalidEndDate is returned when the bill end date is missing or unparseable.
	ErrInvalidEndDate = errors.New("finalize: bill cycle end date is required")
	// ErrInvalidActualAmount is returned for a non-positive actual bill amount.
	ErrInvalidActualAmount = errors.New("finalize: actual bill amount must be positive")
	// ErrConfirmationRequired is returned until the user explicitly confirms finalization.
	ErrConfirmationRequired = errors.New("finalize: confirmation required")
	// ErrMissingEndReading means no daily reading exists for the chosen end date.
	ErrMissingEndReading = errors.New("finalize: no daily reading recorded for the bill end date")
	// ErrNoPriorData means neither bills nor readings exist to derive the cycle start from.
	ErrNoPriorData = errors.New("finalize: no readings or bills to derive the cycle start from")
	// ErrNegativeUnits means the end reading is below the resolved start reading.
	ErrNegativeUnits = errors.New("finalize: units consumed would be negative, check meter readings and end date")
)

// ConfirmationWarning is shown before the commit step.
const ConfirmationWarning = "This will finalize the bi-monthly bill record. Do not proceed if the KSEB bill has not been received. If a bill already exists for this end date, it will be overwritten."

// FinalizeInput carries the user-entered finalization fields. Confirmed reflects the explicit
// confirmation decision; without it the operation stops in the confirming state.
type FinalizeInput struct {
	EndDate      time.Time
	ActualAmount float64
	Comment      string
	Confirmed    bool
}

// FinalizeResult is the persisted bill plus its derived statistics.
type FinalizeResult struct {
	Bill        models.OfficialBill
	Comparisons Comparisons
}

// Finalizer converts the open cycle into a permanent bill record. All reads and the tariff
// call happen before the single upsert, so an external failure leaves no partial write.
type Finalizer struct {
	readings  ReadingStore
	bills     BillStore
	resolver  *CycleResolver
	tariff    TariffCalculator
	estimator *Estimator
	cache     EstimateCache
	events    EventPublisher
	logger    *zap.Logger
}

// NewFinalizer builds finalizer. cache and events may be nil.
func NewFinalizer(readings ReadingStore, bills BillStore, resolver *CycleResolver, tariff TariffCalculator, estimator *Estimator, cache EstimateCache, events EventPublisher, logger *zap.Logger) *Finalizer {
	return &Finalizer{
		readings:  readings,
		bills:     bills,
		resolver:  resolver,
		tariff:    tariff,
		estimator: estimator,
		cache:     cache,
		events:    events,
		logger:    logger,
	}
}

// Finalize validates, confirms and commits an official bill, returning comparisons against
// the last estimate, the previous bill and the historical average.
func (f *Finalizer) Finalize(ctx context.Context, userID int64, input FinalizeInput) (*FinalizeResult, error) {
	if input.EndDate.IsZero() {
		return nil, ErrInvalidEndDate
	}
	if input.ActualAmount <= 0 {
		return nil, ErrInvalidActualAmount
	}
	if !input.Confirmed {
		return nil, ErrConfirmationRequired
	}

	endDate := dates.Day(input.EndDate)

	endReading, err := f.readings.GetByDate(ctx, userID, endDate)
	if err != nil {
		if errors.Is(err, repository.ErrReadingNotFound) {
			return nil, ErrMissingEndReading
		}
		return nil, err
	}

	previous, err := f.bills.LatestEndingBefore(ctx, userID, endDate)
	if err != nil {
		if !errors.Is(err, repository.ErrBillNotFound) {
			return nil, err
		}
		previous = nil
	}

	start, err := f.resolver.ResolveBefore(ctx, userID, endDate)
	if err != nil {
		return nil, err
	}
	if start.Source == SourceDefaultToday {
		return nil, ErrNoPriorData
	}

	units := endReading.Reading - start.Reading
	if units < 0 {
		return nil, ErrNegativeUnits
	}

	breakdown, err := f.tariff.Calculate(ctx, units)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTariffUnavailable, err)
	}

	estimateBaseline, err := f.lastEstimateTotal(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := f.bills.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	bill := models.OfficialBill{
		UserID:            userID,
		CycleStartDate:    start.Date,
		CycleEndDate:      endDate,
		StartMeterReading: start.Reading,
		EndMeterReading:   endReading.Reading,
		UnitsConsumed:     units,
		FixedCharge:       breakdown.FixedCharge,
		EnergyCharge:      breakdown.EnergyCharge,
		ElectricityDuty:   breakdown.ElectricityDuty,
		FuelSurcharge:     breakdown.FuelSurcharge,
		MeterRent:         breakdown.MeterRent,
		FCSubsidy:         breakdown.FCSubsidy,
		ECSubsidy:         breakdown.ECSubsidy,
		TotalCalculated:   breakdown.TotalBill,
		ActualAmount:      input.ActualAmount,
		Comment:           input.Comment,
	}

	comparisons := Comparisons{
		EstimateVsActual: compareEstimateVsActual(estimateBaseline, input.ActualAmount),
		VsPreviousBill:   compareToPrevious(previous, input.ActualAmount),
		VsAverage:        compareToAverage(existing, bill),
	}

	if err := f.bills.Upsert(ctx, &bill); err != nil {
		return nil, err
	}

	f.logger.Info("official bill finalized",
		zap.Int64("user_id", userID),
		zap.String("cycle_end_date", dates.FormatStore(endDate)),
		zap.Float64("units_consumed", units),
		zap.Float64("actual_amount", input.ActualAmount),
	)

	// The open cycle has moved; the cached estimate belongs to the old one.
	if f.cache != nil {
		if err := f.cache.Delete(ctx, userID); err != nil {
			f.logger.Warn("failed to drop estimate snapshot", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	if f.events != nil {
		f.events.Publish(userID, EventBillFinalized, map[string]interface{}{
			"cycle_end_date": dates.FormatStore(endDate),
			"units_consumed": units,
			"actual_amount":  input.ActualAmount,
		})
	}

	return &FinalizeResult{Bill: bill, Comparisons: comparisons}, nil
}

// History returns finalized bills, newest first.
func (f *Finalizer) History(ctx context.Context, userID int64, limit int) ([]models.OfficialBill, error) {
	return f.bills.ListOrderedByEndDate(ctx, userID, true, limit)
}

// lastEstimateTotal returns the estimate-vs-actual baseline: the cached last-served estimate,
// or a fresh estimate when no snapshot exists.
func (f *Finalizer) lastEstimateTotal(ctx context.Context, userID int64) (float64, error) {
	if f.cache != nil {
		snapshot, err := f.cache.Get(ctx, userID)
		if err != nil {
			f.logger.Warn("failed to read estimate snapshot", zap.Int64("user_id", userID), zap.Error(err))
		} else if snapshot != nil {
			return snapshot.TotalBill, nil
		}
	}

	estimate, err := f.estimator.Estimate(ctx, userID)
	if err != nil {
		return 0, err
	}
	return estimate.Breakdown.TotalBill, nil
}

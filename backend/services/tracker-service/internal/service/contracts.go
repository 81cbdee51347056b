package service

import (
	"context"
	"errors"
	"time"

	"ksebtracker/backend/services/tracker-service/internal/models"
)

// ReadingStore defines the reading persistence contract used by the services. Ordered scans
// take a direction and a limit; range bounds are inclusive.
type ReadingStore interface {
	Upsert(ctx context.Context, reading *models.DailyReading) error
	GetByDate(ctx context.Context, userID int64, date time.Time) (*models.DailyReading, error)
	ListOrderedByDate(ctx context.Context, userID int64, descending bool, limit int) ([]models.DailyReading, error)
	ListInRange(ctx context.Context, userID int64, start, end time.Time, descending bool, limit int) ([]models.DailyReading, error)
}

// BillStore defines the official-bill persistence contract.
type BillStore interface {
	Upsert(ctx context.Context, bill *models.OfficialBill) error
	Latest(ctx context.Context, userID int64) (*models.OfficialBill, error)
	LatestEndingBefore(ctx context.Context, userID int64, before time.Time) (*models.OfficialBill, error)
	ListOrderedByEndDate(ctx context.Context, userID int64, descending bool, limit int) ([]models.OfficialBill, error)
	ListAll(ctx context.Context, userID int64) ([]models.OfficialBill, error)
}

// TariffCalculator requests a charge breakdown for a units figure from the tariff endpoint.
type TariffCalculator interface {
	Calculate(ctx context.Context, units float64) (*models.ChargeBreakdown, error)
}

// ErrTariffUnavailable wraps tariff endpoint failures so handlers can map them to a
// bad-gateway response.
var ErrTariffUnavailable = errors.New("tariff endpoint unavailable")

// EstimateCache keeps the last estimate served per user. Get returns (nil, nil) on a miss.
type EstimateCache interface {
	Save(ctx context.Context, userID int64, snapshot models.EstimateSnapshot) error
	Get(ctx context.Context, userID int64) (*models.EstimateSnapshot, error)
	Delete(ctx context.Context, userID int64) error
}

// EventPublisher pushes live-update events to connected clients. Implementations must not
// block the calling operation.
type EventPublisher interface {
	Publish(userID int64, eventType string, payload interface{})
}

// Live-update event types.
const (
	EventReadingSaved    = "reading_saved"
	EventEstimateUpdated = "estimate_updated"
	EventBillFinalized   = "bill_finalized"
)

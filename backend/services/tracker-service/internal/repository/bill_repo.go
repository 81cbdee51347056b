package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ksebtracker/backend/services/tracker-service/internal/models"
)

// ErrBillNotFound represents a missing official bill row.
var ErrBillNotFound = errors.New("official bill not found")

const billColumns = `
	user_id, cycle_start_date, cycle_end_date, start_meter_reading, end_meter_reading,
	units_consumed, fixed_charge, energy_charge, electricity_duty, fuel_surcharge,
	meter_rent, fc_subsidy, ec_subsidy, total_calculated, actual_amount, user_comment, created_at
`

// BillRepository persists finalized bills keyed by (user, cycle end date).
type BillRepository struct {
	db *sql.DB
}

// NewBillRepository returns repository instance.
func NewBillRepository(db *sql.DB) *BillRepository {
	return &BillRepository{db: db}
}

// Upsert inserts or fully overwrites the bill for its end-date key.
func (r *BillRepository) Upsert(ctx context.Context, bill *models.OfficialBill) error {
	const query = `
		INSERT INTO official_bills (
			user_id, cycle_start_date, cycle_end_date, start_meter_reading, end_meter_reading,
			units_consumed, fixed_charge, energy_charge, electricity_duty, fuel_surcharge,
			meter_rent, fc_subsidy, ec_subsidy, total_calculated, actual_amount, user_comment, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
		ON CONFLICT (user_id, cycle_end_date) DO UPDATE SET
			cycle_start_date = EXCLUDED.cycle_start_date,
			start_meter_reading = EXCLUDED.start_meter_reading,
			end_meter_reading = EXCLUDED.end_meter_reading,
			units_consumed = EXCLUDED.units_consumed,
			fixed_charge = EXCLUDED.fixed_charge,
			energy_charge = EXCLUDED.energy_charge,
			electricity_duty = EXCLUDED.electricity_duty,
			fuel_surcharge = EXCLUDED.fuel_surcharge,
			meter_rent = EXCLUDED.meter_rent,
			fc_subsidy = EXCLUDED.fc_subsidy,
			ec_subsidy = EXCLUDED.ec_subsidy,
			total_calculated = EXCLUDED.total_calculated,
			actual_amount = EXCLUDED.actual_amount,
			user_comment = EXCLUDED.user_comment,
			created_at = NOW()
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		bill.UserID,
		bill.CycleStartDate,
		bill.CycleEndDate,
		bill.StartMeterReading,
		bill.EndMeterReading,
		bill.UnitsConsumed,
		bill.FixedCharge,
		bill.EnergyCharge,
		bill.ElectricityDuty,
		bill.FuelSurcharge,
		bill.MeterRent,
		bill.FCSubsidy,
		bill.ECSubsidy,
		bill.TotalCalculated,
		bill.ActualAmount,
		bill.Comment,
	).Scan(&bill.CreatedAt)
}

// Latest returns the bill with the maximum cycle end date.
func (r *BillRepository) Latest(ctx context.Context, userID int64) (*models.OfficialBill, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM official_bills
		WHERE user_id = $1
		ORDER BY cycle_end_date DESC
		LIMIT 1
	`, billColumns)
	return r.one(ctx, query, userID)
}

// LatestEndingBefore returns the newest bill whose cycle end date is strictly before the
// given date.
func (r *BillRepository) LatestEndingBefore(ctx context.Context, userID int64, before time.Time) (*models.OfficialBill, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM official_bills
		WHERE user_id = $1 AND cycle_end_date < $2
		ORDER BY cycle_end_date DESC
		LIMIT 1
	`, billColumns)
	return r.one(ctx, query, userID, before)
}

// ListOrderedByEndDate returns bills ordered by cycle end date.
func (r *BillRepository) ListOrderedByEndDate(ctx context.Context, userID int64, descending bool, limit int) ([]models.OfficialBill, error) {
	if limit <= 0 {
		limit = defaultScanLimit
	}
	query := fmt.Sprintf(`
		SELECT %s FROM official_bills
		WHERE user_id = $1
		ORDER BY cycle_end_date %s
		LIMIT $2
	`, billColumns, direction(descending))
	return r.scan(ctx, query, userID, limit)
}

// ListAll returns every bill for the user, oldest first.
func (r *BillRepository) ListAll(ctx context.Context, userID int64) ([]models.OfficialBill, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM official_bills
		WHERE user_id = $1
		ORDER BY cycle_end_date ASC
	`, billColumns)
	return r.scan(ctx, query, userID)
}

func (r *BillRepository) one(ctx context.Context, query string, args ...interface{}) (*models.OfficialBill, error) {
	row := r.db.QueryRowContext(ctx, query, args...)
	var bill models.OfficialBill
	if err := scanBill(row.Scan, &bill); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}
	return &bill, nil
}

func (r *BillRepository) scan(ctx context.Context, query string, args ...interface{}) ([]models.OfficialBill, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []models.OfficialBill
	for rows.Next() {
		var bill models.OfficialBill
		if err := scanBill(rows.Scan, &bill); err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bills, nil
}

func scanBill(scan func(...interface{}) error, bill *models.OfficialBill) error {
	return scan(
		&bill.UserID,
		&bill.CycleStartDate,
		&bill.CycleEndDate,
		&bill.StartMeterReading,
		&bill.EndMeterReading,
		&bill.UnitsConsumed,
		&bill.FixedCharge,
		&bill.EnergyCharge,
		&bill.ElectricityDuty,
		&bill.FuelSurcharge,
		&bill.MeterRent,
		&bill.FCSubsidy,
		&bill.ECSubsidy,
		&bill.TotalCalculated,
		&bill.ActualAmount,
		&bill.Comment,
		&bill.CreatedAt,
	)
}

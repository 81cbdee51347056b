package models

import "time"

// OfficialBill is a finalized bi-monthly bill record. The cycle end date is the per-user key;
// finalizing again for the same end date overwrites the record in full.
type OfficialBill struct {
	UserID            int64     `db:"user_id"`
	CycleStartDate    time.Time `db:"cycle_start_date"`
	CycleEndDate      time.Time `db:"cycle_end_date"`
	StartMeterReading float64   `db:"start_meter_reading"`
	EndMeterReading   float64   `db:"end_meter_reading"`
	UnitsConsumed     float64   `db:"units_consumed"`
	FixedCharge       float64   `db:"fixed_charge"`
	EnergyCharge      float64   `db:"energy_charge"`
	ElectricityDuty   float64   `db:"electricity_duty"`
	FuelSurcharge     float64   `db:"fuel_surcharge"`
	MeterRent         float64   `db:"meter_rent"`
	FCSubsidy         float64   `db:"fc_subsidy"`
	ECSubsidy         float64   `db:"ec_subsidy"`
	TotalCalculated   float64   `db:"total_calculated"`
	ActualAmount      float64   `db:"actual_amount"`
	Comment           string    `db:"user_comment"`
	CreatedAt         time.Time `db:"created_at"`
}

// ComparableAmount is the figure used for bill-to-bill statistics: the user-entered KSEB
// amount when present, the computed total otherwise.
func (b OfficialBill) ComparableAmount() float64 {
	if b.ActualAmount > 0 {
		return b.ActualAmount
	}
	return b.TotalCalculated
}

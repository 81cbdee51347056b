package models

import "time"

// ChargeBreakdown mirrors the tariff service response body.
type ChargeBreakdown struct {
	TotalUnits      float64 `json:"total_units"`
	FixedCharge     float64 `json:"fixed_charge"`
	EnergyCharge    float64 `json:"energy_charge"`
	ElectricityDuty float64 `json:"electricity_duty"`
	FuelSurcharge   float64 `json:"fuel_surcharge"`
	MeterRent       float64 `json:"meter_rent"`
	FCSubsidy       float64 `json:"fc_subsidy"`
	ECSubsidy       float64 `json:"ec_subsidy"`
	TotalBill       float64 `json:"total_bill"`
}

// EstimateSnapshot is the last estimate served to the user, kept so finalization can compare
// the actual bill against what the tracker predicted.
type EstimateSnapshot struct {
	Units      float64   `json:"units"`
	TotalBill  float64   `json:"total_bill"`
	ComputedAt time.Time `json:"computed_at"`
}

package tariff

import (
	"errors"
	"math"
)

// Breakdown is the charge breakdown for a bi-monthly consumption figure. Field names follow
// the KSEB online calculator components.
type Breakdown struct {
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

// ErrNegativeUnits rejects consumption below zero.
var ErrNegativeUnits = errors.New("tariff: units cannot be negative")

// band maps a consumption range (everything up to and including upTo) to an amount. Bands are
// evaluated in order, first match wins, so the slice must be sorted by upTo ascending.
type band struct {
	upTo   float64
	amount float64
}

// telescopicSlab is a slab of units billed at a single rate for consumption up to 500 units.
type telescopicSlab struct {
	size float64
	rate float64
}

// Domestic LT-IA bi-monthly tariff, as published by the KSEB online bill calculator. Rates and
// subsidies are revised by KSERC from time to time.
var (
	fixedCharges = []band{
		{100, 99.5},
		{200, 169.0},
		{300, 209.0},
		{400, 279.0},
		{500, 318.5},
		{600, 437.0},
		{800, 517.5},
		{math.Inf(1), 568.0},
	}

	telescopicSlabs = []telescopicSlab{
		{100, 3.35},
		{100, 4.25},
		{100, 5.35},
		{100, 7.20},
		{100, 8.50},
	}

	// Above 500 units the whole consumption is billed at a single non-telescopic rate.
	nonTelescopicRates = []band{
		{600, 6.75},
		{800, 7.95},
		{math.Inf(1), 8.25},
	}

	fcSubsidy = []band{
		{300, -40.0},
		{math.Inf(1), 0.0},
	}

	// Approximated from observed KSEB bills; the official rules are not published in full.
	ecSubsidy = []band{
		{44, -6.0},
		{99, -37.5},
		{111, -43.5},
		{123, -49.5},
		{180, -78.0},
		{222, -99.0},
		{233, -104.5},
		{240, -108.0},
		{289, -78.0},
		{math.Inf(1), 0.0},
	}
)

const (
	fuelSurchargePerUnit = 0.08
	meterRentBiMonthly   = 12.0
	electricityDutyRate  = 0.10
	telescopicLimit      = 500.0
)

// Calculate computes the bi-monthly bill breakdown for the given consumption. Components are
// rounded to two decimals, matching the amounts KSEB prints.
func Calculate(units float64) (Breakdown, error) {
	if units < 0 {
		return Breakdown{}, ErrNegativeUnits
	}

	fixedCharge := bandAmount(fixedCharges, units)
	energyCharge := energyCharge(units)
	duty := energyCharge * electricityDutyRate
	fuelSurcharge := units * fuelSurchargePerUnit

	total := fixedCharge + energyCharge + duty + fuelSurcharge + meterRentBiMonthly +
		bandAmount(fcSubsidy, units) + bandAmount(ecSubsidy, units)

	return Breakdown{
		TotalUnits:      units,
		FixedCharge:     round2(fixedCharge),
		EnergyCharge:    round2(energyCharge),
		ElectricityDuty: round2(duty),
		FuelSurcharge:   round2(fuelSurcharge),
		MeterRent:       round2(meterRentBiMonthly),
		FCSubsidy:       round2(bandAmount(fcSubsidy, units)),
		ECSubsidy:       round2(bandAmount(ecSubsidy, units)),
		TotalBill:       round2(total),
	}, nil
}

func energyCharge(units float64) float64 {
	if units > telescopicLimit {
		return units * bandAmount(nonTelescopicRates, units)
	}

	var charge float64
	remaining := units
	for _, slab := range telescopicSlabs {
		if remaining <= 0 {
			break
		}
		inSlab := math.Min(remaining, slab.size)
		charge += inSlab * slab.rate
		remaining -= inSlab
	}
	return charge
}

func bandAmount(bands []band, units float64) float64 {
	for _, b := range bands {
		if units <= b.upTo {
			return b.amount
		}
	}
	return bands[len(bands)-1].amount
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

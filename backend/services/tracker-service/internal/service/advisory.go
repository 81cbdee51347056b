package service

import "sort"

// Severity tags an advisory. Order matters for monotonicity: higher consumption never maps
// to a lower severity.
type Severity string

const (
	SeverityNoData   Severity = "no_data"
	SeverityNormal   Severity = "normal"
	SeverityWarning  Severity = "warning"
	SeverityElevated Severity = "elevated"
	SeveritySevere   Severity = "severe"
	SeverityCritical Severity = "critical"
)

// AdvisoryBand maps a units threshold to a severity and message. Membership is evaluated by
// nearest descending threshold: the highest band whose threshold the units reach wins.
type AdvisoryBand struct {
	Threshold float64  `yaml:"threshold"`
	Severity  Severity `yaml:"severity"`
	Message   string   `yaml:"message"`
}

// Advisory is the consumption classification shown with an estimate.
type Advisory struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// DefaultAdvisoryBands returns the stock KSEB slab warnings. Band edges are configuration,
// not contract.
func DefaultAdvisoryBands() []AdvisoryBand {
	return []AdvisoryBand{
		{Threshold: 300, Severity: SeverityWarning, Message: "Cycle usage is above 300 units. Keep an eye on your consumption."},
		{Threshold: 400, Severity: SeverityElevated, Message: "Cycle usage is approaching 450 units. The next slabs are significantly more expensive."},
		{Threshold: 450, Severity: SeveritySevere, Message: "Cycle usage is approaching 500 units. Consumption beyond 500 is billed non-telescopically."},
		{Threshold: 500, Severity: SeverityCritical, Message: "Cycle usage is at or above 500 units. Consumption beyond this point is very expensive."},
	}
}

const (
	noDataMessage = "Start recording units to see consumption insights."
	normalMessage = "Cycle usage is within normal limits. Keep up the good work."
)

// ClassifyUnits maps units-in-cycle to an advisory. Zero or negative units are a distinct
// no-data state, never "normal".
func ClassifyUnits(bands []AdvisoryBand, units float64) Advisory {
	if units <= 0 {
		return Advisory{Severity: SeverityNoData, Message: noDataMessage}
	}

	ordered := make([]AdvisoryBand, len(bands))
	copy(ordered, bands)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Threshold > ordered[j].Threshold })

	for _, band := range ordered {
		if units >= band.Threshold {
			return Advisory{Severity: band.Severity, Message: band.Message}
		}
	}
	return Advisory{Severity: SeverityNormal, Message: normalMessage}
}

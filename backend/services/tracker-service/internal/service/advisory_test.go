package service

import "testing"

func TestClassifyUnitsBoundaries(t *testing.T) {
	bands := DefaultAdvisoryBands()
	cases := []struct {
		units float64
		want  Severity
	}{
		{0, SeverityNoData},
		{-10, SeverityNoData},
		{1, SeverityNormal},
		{299.9, SeverityNormal},
		{300, SeverityWarning},
		{399.9, SeverityWarning},
		{400, SeverityElevated},
		{450, SeveritySevere},
		{499.9, SeveritySevere},
		{500, SeverityCritical},
		{1200, SeverityCritical},
	}
	for _, tc := range cases {
		if got := ClassifyUnits(bands, tc.units).Severity; got != tc.want {
			t.Errorf("ClassifyUnits(%v) = %s, want %s", tc.units, got, tc.want)
		}
	}
}

func TestClassifyUnitsSeverityIsMonotonic(t *testing.T) {
	rank := map[Severity]int{
		SeverityNormal:   0,
		SeverityWarning:  1,
		SeverityElevated: 2,
		SeveritySevere:   3,
		SeverityCritical: 4,
	}
	bands := DefaultAdvisoryBands()
	prev := -1
	for units := 1.0; units <= 900; units += 0.5 {
		got := rank[ClassifyUnits(bands, units).Severity]
		if got < prev {
			t.Fatalf("severity dropped at %v units", units)
		}
		prev = got
	}
}

func TestClassifyUnitsUnsortedBands(t *testing.T) {
	bands := []AdvisoryBand{
		{Threshold: 500, Severity: SeverityCritical, Message: "critical"},
		{Threshold: 100, Severity: SeverityWarning, Message: "warning"},
	}
	if got := ClassifyUnits(bands, 250).Severity; got != SeverityWarning {
		t.Errorf("ClassifyUnits(250) = %s, want %s", got, SeverityWarning)
	}
	if got := ClassifyUnits(bands, 600).Severity; got != SeverityCritical {
		t.Errorf("ClassifyUnits(600) = %s, want %s", got, SeverityCritical)
	}
}

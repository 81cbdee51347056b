package service

import (
	"fmt"
	"math"

	"ksebtracker/backend/services/tracker-service/internal/models"
)

// closeMatchPercent is the band inside which estimate-vs-actual and vs-average count as a
// match.
const closeMatchPercent = 5.0

// ComparisonVerdict classifies a bill against a baseline amount.
type ComparisonVerdict string

const (
	VerdictCloseMatch   ComparisonVerdict = "close_match"
	VerdictHigher       ComparisonVerdict = "higher"
	VerdictLower        ComparisonVerdict = "lower"
	VerdictZeroBaseline ComparisonVerdict = "zero_baseline"
	VerdictNoBaseline   ComparisonVerdict = "no_baseline"
)

// Comparison is one derived statistic for a finalized bill. PercentDiff is the absolute
// magnitude at full precision; messages round for display only.
type Comparison struct {
	Verdict     ComparisonVerdict `json:"verdict"`
	Baseline    float64           `json:"baseline"`
	PercentDiff float64           `json:"percent_diff"`
	Message     string            `json:"message"`
}

// Comparisons groups the three statistics computed at finalization.
type Comparisons struct {
	EstimateVsActual Comparison `json:"estimate_vs_actual"`
	VsPreviousBill   Comparison `json:"vs_previous_bill"`
	VsAverage        Comparison `json:"vs_historical_average"`
}

// compareEstimateVsActual classifies the actual amount against the last displayed estimate.
func compareEstimateVsActual(estimate, actual float64) Comparison {
	if estimate == 0 {
		if actual == 0 {
			return Comparison{
				Verdict: VerdictCloseMatch,
				Message: "Your actual bill (₹0.00) matched the estimated ₹0.00.",
			}
		}
		return Comparison{
			Verdict: VerdictZeroBaseline,
			Message: fmt.Sprintf("Your actual bill (₹%.2f) was higher than the estimated ₹0.00.", actual),
		}
	}

	pct := (actual - estimate) / estimate * 100
	switch {
	case math.Abs(pct) < closeMatchPercent:
		return Comparison{
			Verdict:     VerdictCloseMatch,
			Baseline:    estimate,
			PercentDiff: math.Abs(pct),
			Message:     fmt.Sprintf("Your actual bill (₹%.2f) was almost correct compared to the estimate (₹%.2f).", actual, estimate),
		}
	case pct > 0:
		return Comparison{
			Verdict:     VerdictHigher,
			Baseline:    estimate,
			PercentDiff: pct,
			Message:     fmt.Sprintf("Your actual bill (₹%.2f) was %.2f%% higher than estimated (₹%.2f).", actual, pct, estimate),
		}
	default:
		return Comparison{
			Verdict:     VerdictLower,
			Baseline:    estimate,
			PercentDiff: math.Abs(pct),
			Message:     fmt.Sprintf("Your actual bill (₹%.2f) was %.2f%% lower than estimated (₹%.2f).", actual, math.Abs(pct), estimate),
		}
	}
}

// compareToPrevious classifies the new amount against the preceding bill. No close-match band
// here: strictly higher or lower.
func compareToPrevious(previous *models.OfficialBill, actual float64) Comparison {
	if previous == nil {
		return Comparison{
			Verdict: VerdictNoBaseline,
			Message: "No previous official bill record found for comparison.",
		}
	}

	base := previous.ComparableAmount()
	if base == 0 {
		return Comparison{
			Verdict: VerdictZeroBaseline,
			Message: fmt.Sprintf("The previous bill was ₹0.00. This bill is ₹%.2f.", actual),
		}
	}

	pct := (actual - base) / base * 100
	if pct > 0 {
		return Comparison{
			Verdict:     VerdictHigher,
			Baseline:    base,
			PercentDiff: pct,
			Message:     fmt.Sprintf("This bill is %.2f%% higher than your last bill (₹%.2f).", pct, base),
		}
	}
	return Comparison{
		Verdict:     VerdictLower,
		Baseline:    base,
		PercentDiff: math.Abs(pct),
		Message:     fmt.Sprintf("This bill is %.2f%% lower than your last bill (₹%.2f).", math.Abs(pct), base),
	}
}

// compareToAverage classifies the new amount against the mean of all finalized bills
// including the new one. A record being overwritten (same end date) is excluded so the
// statistic matches what a single finalization would have produced.
func compareToAverage(existing []models.OfficialBill, newBill models.OfficialBill) Comparison {
	sum := newBill.ComparableAmount()
	count := 1
	for _, bill := range existing {
		if bill.CycleEndDate.Equal(newBill.CycleEndDate) {
			continue
		}
		sum += bill.ComparableAmount()
		count++
	}

	average := sum / float64(count)
	actual := newBill.ComparableAmount()
	if average == 0 {
		return Comparison{
			Verdict: VerdictZeroBaseline,
			Message: fmt.Sprintf("Bi-monthly average is ₹0.00. This bill is ₹%.2f.", actual),
		}
	}

	pct := (actual - average) / average * 100
	switch {
	case math.Abs(pct) < closeMatchPercent:
		return Comparison{
			Verdict:     VerdictCloseMatch,
			Baseline:    average,
			PercentDiff: math.Abs(pct),
			Message:     fmt.Sprintf("This bill (₹%.2f) is close to your bi-monthly average (₹%.2f).", actual, average),
		}
	case pct > 0:
		return Comparison{
			Verdict:     VerdictHigher,
			Baseline:    average,
			PercentDiff: pct,
			Message:     fmt.Sprintf("This bill is %.2f%% above your bi-monthly average (₹%.2f).", pct, average),
		}
	default:
		return Comparison{
			Verdict:     VerdictLower,
			Baseline:    average,
			PercentDiff: math.Abs(pct),
			Message:     fmt.Sprintf("This bill is %.2f%% below your bi-monthly average (₹%.2f).", math.Abs(pct), average),
		}
	}
}

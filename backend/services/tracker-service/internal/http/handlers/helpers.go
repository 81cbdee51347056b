package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"ksebtracker/backend/services/tracker-service/internal/dates"
	"ksebtracker/backend/services/tracker-service/internal/http/middleware"
	"ksebtracker/backend/services/tracker-service/internal/models"
	"ksebtracker/backend/services/tracker-service/internal/service"
)

func decodeJSON(r *http.Request, out interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func requestUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return userID, ok
}

func limitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

type readingResponse struct {
	Date    string  `json:"date"`
	Reading float64 `json:"reading"`
}

func toReadingResponse(reading models.DailyReading) readingResponse {
	return readingResponse{
		Date:    dates.FormatStore(reading.Date),
		Reading: reading.Reading,
	}
}

type billResponse struct {
	CycleStartDate    string  `json:"cycle_start_date"`
	CycleEndDate      string  `json:"cycle_end_date"`
	StartMeterReading float64 `json:"start_meter_reading"`
	EndMeterReading   float64 `json:"end_meter_reading"`
	UnitsConsumed     float64 `json:"units_consumed"`
	FixedCharge       float64 `json:"fixed_charge"`
	EnergyCharge      float64 `json:"energy_charge"`
	ElectricityDuty   float64 `json:"electricity_duty"`
	FuelSurcharge     float64 `json:"fuel_surcharge"`
	MeterRent         float64 `json:"meter_rent"`
	FCSubsidy         float64 `json:"fc_subsidy"`
	ECSubsidy         float64 `json:"ec_subsidy"`
	TotalCalculated   float64 `json:"total_calculated"`
	ActualAmount      float64 `json:"actual_amount"`
	Comment           string  `json:"comment,omitempty"`
}

func toBillResponse(bill models.OfficialBill) billResponse {
	return billResponse{
		CycleStartDate:    dates.FormatStore(bill.CycleStartDate),
		CycleEndDate:      dates.FormatStore(bill.CycleEndDate),
		StartMeterReading: bill.StartMeterReading,
		EndMeterReading:   bill.EndMeterReading,
		UnitsConsumed:     bill.UnitsConsumed,
		FixedCharge:       bill.FixedCharge,
		EnergyCharge:      bill.EnergyCharge,
		ElectricityDuty:   bill.ElectricityDuty,
		FuelSurcharge:     bill.FuelSurcharge,
		MeterRent:         bill.MeterRent,
		FCSubsidy:         bill.FCSubsidy,
		ECSubsidy:         bill.ECSubsidy,
		TotalCalculated:   bill.TotalCalculated,
		ActualAmount:      bill.ActualAmount,
		Comment:           bill.Comment,
	}
}

type estimateResponse struct {
	CycleStart        string                 `json:"cycle_start_date"`
	CycleEndProjected string                 `json:"cycle_end_projected"`
	CycleSource       service.CycleSource    `json:"cycle_source"`
	StartReading      float64                `json:"start_meter_reading"`
	LatestReadingDate string                 `json:"latest_reading_date,omitempty"`
	LatestReading     float64                `json:"latest_reading"`
	HasReadings       bool                   `json:"has_readings"`
	Units             float64                `json:"units_consumed"`
	Anomaly           bool                   `json:"anomaly,omitempty"`
	Breakdown         models.ChargeBreakdown `json:"breakdown"`
	Advisory          service.Advisory       `json:"advisory"`
}

func toEstimateResponse(estimate *service.Estimate) estimateResponse {
	resp := estimateResponse{
		CycleStart:        dates.FormatStore(estimate.CycleStart),
		CycleEndProjected: dates.FormatStore(estimate.CycleEndProjected),
		CycleSource:       estimate.Source,
		StartReading:      estimate.StartReading,
		LatestReading:     estimate.LatestReading,
		HasReadings:       estimate.HasReadings,
		Units:             estimate.Units,
		Anomaly:           estimate.Anomaly,
		Breakdown:         estimate.Breakdown,
		Advisory:          estimate.Advisory,
	}
	if estimate.HasReadings {
		resp.LatestReadingDate = dates.FormatStore(estimate.LatestReadingDate)
	}
	return resp
}

func parseStoreDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	parsed, err := dates.ParseStore(raw)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

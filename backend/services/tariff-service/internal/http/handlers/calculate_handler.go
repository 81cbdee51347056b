package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"ksebtracker/backend/services/tariff-service/internal/tariff"
)

type calculateRequest struct {
	Units *float64 `json:"units"`
}

// NewCalculateHandler returns POST /tariff/calculate handler.
func NewCalculateHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req calculateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.Units == nil {
			writeError(w, http.StatusBadRequest, "invalid or missing 'units' parameter")
			return
		}

		breakdown, err := tariff.Calculate(*req.Units)
		if err != nil {
			if errors.Is(err, tariff.ErrNegativeUnits) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			logger.Error("tariff calculation failed", zap.Float64("units", *req.Units), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "tariff calculation failed")
			return
		}

		writeJSON(w, http.StatusOK, breakdown)
	}
}

package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"ksebtracker/backend/services/tracker-service/internal/service"
)

// EstimateHandler serves the open-cycle estimate endpoint.
type EstimateHandler struct {
	estimator *service.Estimator
	logger    *zap.Logger
}

// NewEstimateHandler builds handler.
func NewEstimateHandler(estimator *service.Estimator, logger *zap.Logger) *EstimateHandler {
	return &EstimateHandler{estimator: estimator, logger: logger}
}

// Get handles GET /estimate.
func (h *EstimateHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	estimate, err := h.estimator.Estimate(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrTariffUnavailable) {
			h.logger.Error("tariff endpoint failed", zap.Error(err))
			writeError(w, http.StatusBadGateway, "tariff service unavailable")
			return
		}
		h.logger.Error("failed to compute estimate", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to compute estimate")
		return
	}

	writeJSON(w, http.StatusOK, toEstimateResponse(estimate))
}

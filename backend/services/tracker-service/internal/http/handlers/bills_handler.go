package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"ksebtracker/backend/services/tracker-service/internal/service"
)

// BillsHandler serves bill finalization and history.
type BillsHandler struct {
	finalizer *service.Finalizer
	logger    *zap.Logger
}

// NewBillsHandler builds handler.
func NewBillsHandler(finalizer *service.Finalizer, logger *zap.Logger) *BillsHandler {
	return &BillsHandler{finalizer: finalizer, logger: logger}
}

type finalizeBillRequest struct {
	EndDate      string   `json:"end_date"`
	ActualAmount *float64 `json:"actual_amount"`
	Comment      string   `json:"comment"`
	Confirmed    bool     `json:"confirmed"`
}

// Finalize handles POST /bills.
func (h *BillsHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var req finalizeBillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	date, ok := parseStoreDate(req.EndDate)
	if !ok {
		writeError(w, http.StatusBadRequest, "end_date must be in YYYY-MM-DD format")
		return
	}
	var amount float64
	if req.ActualAmount != nil {
		amount = *req.ActualAmount
	}

	result, err := h.finalizer.Finalize(r.Context(), userID, service.FinalizeInput{
		EndDate:      date,
		ActualAmount: amount,
		Comment:      req.Comment,
		Confirmed:    req.Confirmed,
	})
	if err != nil {
		h.writeFinalizeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"bill":        toBillResponse(result.Bill),
		"comparisons": result.Comparisons,
	})
}

func (h *BillsHandler) writeFinalizeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEndDate), errors.Is(err, service.ErrInvalidActualAmount):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConfirmationRequired):
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":            err.Error(),
			"confirm_required": true,
			"warning":          service.ConfirmationWarning,
		})
	case errors.Is(err, service.ErrNoPriorData),
		errors.Is(err, service.ErrMissingEndReading),
		errors.Is(err, service.ErrNegativeUnits):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrTariffUnavailable):
		h.logger.Error("tariff endpoint failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "tariff service unavailable")
	default:
		h.logger.Error("failed to finalize bill", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to finalize bill")
	}
}

// List handles GET /bills.
func (h *BillsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	bills, err := h.finalizer.History(r.Context(), userID, limitParam(r, defaultListLimit))
	if err != nil {
		h.logger.Error("failed to list bills", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list bills")
		return
	}

	out := make([]billResponse, 0, len(bills))
	for _, bill := range bills {
		out = append(out, toBillResponse(bill))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bills": out})
}

package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"ksebtracker/backend/services/tracker-service/internal/dates"
	"ksebtracker/backend/services/tracker-service/internal/service"
)

const defaultListLimit = 100

// ReadingsHandler serves the daily meter reading endpoints.
type ReadingsHandler struct {
	service *service.ReadingService
	logger  *zap.Logger
}

// NewReadingsHandler builds handler.
func NewReadingsHandler(svc *service.ReadingService, logger *zap.Logger) *ReadingsHandler {
	return &ReadingsHandler{service: svc, logger: logger}
}

type createReadingRequest struct {
	Date             string   `json:"date"`
	Reading          *float64 `json:"reading"`
	ConfirmOverwrite bool     `json:"confirm_overwrite"`
}

// Create handles POST /readings.
func (h *ReadingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	var req createReadingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Reading == nil {
		writeError(w, http.StatusBadRequest, "reading is required")
		return
	}
	date, ok := parseStoreDate(req.Date)
	if !ok {
		writeError(w, http.StatusBadRequest, "date must be in YYYY-MM-DD format")
		return
	}

	saved, err := h.service.Save(r.Context(), userID, date, *req.Reading, req.ConfirmOverwrite)
	if err != nil {
		h.writeSaveError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReadingResponse(*saved))
}

func (h *ReadingsHandler) writeSaveError(w http.ResponseWriter, err error) {
	var confirm *service.OverwriteConfirmationError
	switch {
	case errors.Is(err, service.ErrInvalidReadingDate), errors.Is(err, service.ErrInvalidReadingValue):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &confirm):
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":            confirm.Error(),
			"confirm_required": true,
			"existing":         toReadingResponse(confirm.Existing),
		})
	case errors.Is(err, service.ErrLowerThanLatest):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("failed to save reading", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save reading")
	}
}

// List handles GET /readings.
func (h *ReadingsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	readings, err := h.service.List(r.Context(), userID, limitParam(r, defaultListLimit))
	if err != nil {
		h.logger.Error("failed to list readings", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list readings")
		return
	}

	out := make([]readingResponse, 0, len(readings))
	for _, reading := range readings {
		out = append(out, toReadingResponse(reading))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"readings": out})
}

// Latest handles GET /readings/latest.
func (h *ReadingsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUserID(w, r)
	if !ok {
		return
	}

	latest, err := h.service.LatestWithDelta(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load latest reading", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load latest reading")
		return
	}
	if latest == nil {
		writeError(w, http.StatusNotFound, "no readings recorded yet")
		return
	}

	resp := map[string]interface{}{
		"reading":      toReadingResponse(latest.Reading),
		"has_previous": latest.HasPrevious,
	}
	if latest.HasPrevious {
		resp["delta_units"] = latest.DeltaUnits
		resp["previous_date"] = dates.FormatStore(latest.PreviousDate)
	}
	writeJSON(w, http.StatusOK, resp)
}

package handlers

import (
	"net/http"
	"strings"
	"time"

	"waypoint-timing-service/internal/api/dto"
	"waypoint-timing-service/internal/domain"
	"waypoint-timing-service/internal/services"
)

// PredictionHandler runs the engine over records supplied in the request body.
// Nothing is read from or written to storage.
type PredictionHandler struct {
	Classifier   services.Classifier
	Location     *time.Location
	BaselineDays int
	// Returns the current time; nil means time.Now.
	Now func() time.Time
}

func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PredictRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	loc := h.Location
	if loc == nil {
		loc = time.UTC
	}

	var serviceDate time.Time
	if s := strings.TrimSpace(req.ServiceDate); s != "" {
		d, err := time.ParseInLocation(domain.DateLayout, s, loc)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "service_date must be YYYY-MM-DD")
			return
		}
		serviceDate = d
	}

	if req.PauseOffsetMinutes < 0 {
		writeError(w, r, http.StatusBadRequest, "pause_offset_minutes must not be negative")
		return
	}

	svcReq := services.PredictRequest{
		History:            toVisits(req.History),
		Checkpoints:        toVisits(req.Checkpoints),
		Start:              req.Start,
		ServiceDate:        serviceDate,
		Location:           loc,
		Now:                h.Now,
		PauseOffsetMinutes: req.PauseOffsetMinutes,
		BaselineDays:       h.BaselineDays,
	}

	if req.DayTypeAware {
		if serviceDate.IsZero() || h.Classifier == nil {
			writeError(w, r, http.StatusBadRequest, "day_type_aware requires service_date")
			return
		}
		svcReq.DayType = h.Classifier.Classify(serviceDate)

		dates := make([]string, 0, len(svcReq.History))
		for _, v := range svcReq.History {
			dates = append(dates, v.Date)
		}
		svcReq.DayTypeDates = services.DatesOfType(h.Classifier, dates, svcReq.DayType)
	}

	fc := services.PredictFromRecords(r.Context(), svcReq)
	writeJSON(w, r, http.StatusOK, toForecastResponse(fc, loc))
}

package handlers

import (
	"net/http"

	"waypoint-timing-service/internal/api/dto"
	"waypoint-timing-service/internal/services"
)

type DayTypeHandler struct {
	Classifier services.Classifier
}

// Classify serves GET /day-types/{date}.
func (h *DayTypeHandler) Classify(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	date := r.PathValue("date")
	dt, err := services.ClassifyDate(h.Classifier, date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DayTypeResponse{Date: date, DayType: string(dt)})
}

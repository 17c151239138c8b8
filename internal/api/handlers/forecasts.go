package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"waypoint-timing-service/internal/domain"
	"waypoint-timing-service/internal/services"
)

// RouteForecaster is the service behind the route endpoints.
type RouteForecaster interface {
	Forecast(ctx context.Context, req services.ForecastRequest) (*domain.Forecast, error)
	InvalidateAverages(ctx context.Context, routeID string) error
}

type ForecastHandler struct {
	Forecaster RouteForecaster
	Location   *time.Location
	// Returns the current time; nil means time.Now.
	Now func() time.Time
}

// Forecast serves GET /routes/{routeID}/forecast.
//
// Query: date (YYYY-MM-DD, default today), start (ISO 8601 or HH:MM),
// pause (minutes), day_type_aware (bool), lookback_days (int).
func (h *ForecastHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	routeID := strings.TrimSpace(r.PathValue("routeID"))
	if routeID == "" {
		writeError(w, r, http.StatusBadRequest, "route id is required")
		return
	}

	q := r.URL.Query()

	date := strings.TrimSpace(q.Get("date"))
	if date == "" {
		date = h.now().In(h.location()).Format(domain.DateLayout)
	}

	pause, err := intParam(q.Get("pause"))
	if err != nil || pause < 0 {
		writeError(w, r, http.StatusBadRequest, "pause must be a non-negative integer")
		return
	}

	lookback, err := intParam(q.Get("lookback_days"))
	if err != nil || lookback < 0 {
		writeError(w, r, http.StatusBadRequest, "lookback_days must be a non-negative integer")
		return
	}

	aware := false
	if s := q.Get("day_type_aware"); s != "" {
		aware, err = strconv.ParseBool(s)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "day_type_aware must be a boolean")
			return
		}
	}

	fc, err := h.Forecaster.Forecast(r.Context(), services.ForecastRequest{
		RouteID:            routeID,
		Date:               date,
		Start:              q.Get("start"),
		PauseOffsetMinutes: pause,
		DayTypeAware:       aware,
		LookbackDays:       lookback,
	})
	if errors.Is(err, services.ErrInvalidRequest) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "forecast failed", "route_id", routeID, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, toForecastResponse(*fc, h.location()))
}

// InvalidateAverages serves DELETE /routes/{routeID}/averages.
func (h *ForecastHandler) InvalidateAverages(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodDelete) {
		return
	}

	routeID := strings.TrimSpace(r.PathValue("routeID"))
	if routeID == "" {
		writeError(w, r, http.StatusBadRequest, "route id is required")
		return
	}

	err := h.Forecaster.InvalidateAverages(r.Context(), routeID)
	if errors.Is(err, services.ErrInvalidRequest) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "invalidate averages failed", "route_id", routeID, "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ForecastHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *ForecastHandler) location() *time.Location {
	if h.Location != nil {
		return h.Location
	}
	return time.UTC
}

func intParam(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

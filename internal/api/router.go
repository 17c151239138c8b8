package api

import (
	"net/http"
	"time"

	"waypoint-timing-service/internal/api/handlers"
	"waypoint-timing-service/internal/services"
)

type Deps struct {
	Forecaster   handlers.RouteForecaster
	Classifier   services.Classifier
	Location     *time.Location
	BaselineDays int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	forecastHandler := &handlers.ForecastHandler{
		Forecaster: d.Forecaster,
		Location:   d.Location,
	}
	predictionHandler := &handlers.PredictionHandler{
		Classifier:   d.Classifier,
		Location:     d.Location,
		BaselineDays: d.BaselineDays,
	}
	dayTypeHandler := &handlers.DayTypeHandler{Classifier: d.Classifier}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/predictions", predictionHandler.Predict)
	mux.HandleFunc("/routes/{routeID}/forecast", forecastHandler.Forecast)
	mux.HandleFunc("/routes/{routeID}/averages", forecastHandler.InvalidateAverages)
	mux.HandleFunc("/day-types/{date}", dayTypeHandler.Classify)

	return requestIDMiddleware(loggingMiddleware(mux))
}

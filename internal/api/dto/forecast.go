package dto

import "time"

type PredictionResponse struct {
	CheckpointName            string     `json:"checkpoint_name"`
	SequenceNumber            int        `json:"sequence_number"`
	PredictedAt               *time.Time `json:"predicted_at"`
	PredictedClock            string     `json:"predicted_clock,omitempty"`
	PredictedMinutesFromStart *int       `json:"predicted_minutes_from_start"`
	Confidence                string     `json:"confidence"`
	ActualMinutes             *int       `json:"actual_minutes,omitempty"`
	VarianceMinutes           *int       `json:"variance_minutes,omitempty"`
}

type ProgressResponse struct {
	Status          string `json:"status"`
	CheckpointName  string `json:"checkpoint_name,omitempty"`
	VarianceMinutes int    `json:"variance_minutes"`
	Message         string `json:"message"`
}

type ReturnResponse struct {
	Available       bool       `json:"available"`
	CheckpointName  string     `json:"checkpoint_name,omitempty"`
	PredictedAt     *time.Time `json:"predicted_at,omitempty"`
	PredictedClock  string     `json:"predicted_clock,omitempty"`
	Confidence      string     `json:"confidence"`
	CompletionRatio float64    `json:"completion_ratio"`
}

type ForecastResponse struct {
	RouteID     string               `json:"route_id,omitempty"`
	Date        string               `json:"date,omitempty"`
	DayType     string               `json:"day_type,omitempty"`
	Start       string               `json:"start"`
	HistoryDays int                  `json:"history_days"`
	Predictions []PredictionResponse `json:"predictions"`
	Progress    ProgressResponse     `json:"progress"`
	Return      ReturnResponse       `json:"return"`
}

type DayTypeResponse struct {
	Date    string `json:"date"`
	DayType string `json:"day_type"`
}

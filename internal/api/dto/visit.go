package dto

import "time"

type VisitRequest struct {
	Date           string     `json:"date"`
	CheckpointName string     `json:"checkpoint_name"`
	SequenceNumber int        `json:"sequence_number"`
	CompletedAt    *time.Time `json:"completed_at"`
	// Optional; inferred from completed_at when empty.
	Status string `json:"status"`
}

type PredictRequest struct {
	Start              string         `json:"start"`
	ServiceDate        string         `json:"service_date"`
	PauseOffsetMinutes int            `json:"pause_offset_minutes"`
	DayTypeAware       bool           `json:"day_type_aware"`
	History            []VisitRequest `json:"history"`
	Checkpoints        []VisitRequest `json:"checkpoints"`
}

package domain

import "time"

// Forecast for one of today's checkpoints.
// Entries with ConfidenceActual are pinned to the real completion time.
type PredictionResult struct {
	CheckpointName            string
	SequenceNumber            int
	PredictedAt               *time.Time
	PredictedMinutesFromStart *int
	Confidence                ConfidenceTier
	ActualMinutes             *int
	VarianceMinutes           *int
}

type PaceStatus string

const (
	PaceNotStarted PaceStatus = "not-started"
	PaceOnSchedule PaceStatus = "on-schedule"
	PaceAhead      PaceStatus = "ahead"
	PaceBehind     PaceStatus = "behind"
)

type ProgressReport struct {
	Status          PaceStatus
	CheckpointName  string
	VarianceMinutes int
	Message         string
}

type ReturnEstimate struct {
	Available       bool
	CheckpointName  string
	PredictedAt     *time.Time
	Confidence      ConfidenceTier
	CompletionRatio float64
}

// Everything computed for one route on one day.
type Forecast struct {
	RouteID     string
	Date        string
	DayType     DayType
	Start       string
	Predictions []PredictionResult
	Progress    ProgressReport
	Return      ReturnEstimate
	HistoryDays int
}

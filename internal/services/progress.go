package services

import (
	"fmt"

	"waypoint-timing-service/internal/domain"
)

// Pace band in minutes around a checkpoint's own prediction.
const PaceThresholdMinutes = 10

// EvaluateProgress compares the furthest completed checkpoint with the
// estimate it had before it was completed.
//
// "Furthest" is by list position, not timestamp. predictions must be the
// ChainPredictions output for the same checkpoints.
func EvaluateProgress(checkpoints []domain.CheckpointVisit, predictions []domain.PredictionResult) domain.ProgressReport {
	last := -1
	for i, cp := range checkpoints {
		if cp.Done() {
			last = i
		}
	}

	if last < 0 {
		return domain.ProgressReport{
			Status:  domain.PaceNotStarted,
			Message: "Route not started yet",
		}
	}

	name := checkpoints[last].CheckpointName
	if last >= len(predictions) || predictions[last].VarianceMinutes == nil {
		return domain.ProgressReport{
			Status:         domain.PaceOnSchedule,
			CheckpointName: name,
			Message:        "On schedule",
		}
	}

	v := *predictions[last].VarianceMinutes
	r := domain.ProgressReport{CheckpointName: name, VarianceMinutes: v}

	switch {
	case v <= -PaceThresholdMinutes:
		r.Status = domain.PaceAhead
		r.Message = fmt.Sprintf("%d min ahead of schedule at %s", -v, name)
	case v >= PaceThresholdMinutes:
		r.Status = domain.PaceBehind
		r.Message = fmt.Sprintf("%d min behind schedule at %s", v, name)
	default:
		r.Status = domain.PaceOnSchedule
		r.Message = fmt.Sprintf("On schedule at %s", name)
	}

	return r
}

package services

import (
	"time"

	"waypoint-timing-service/internal/domain"
)

func at(day string, clock string) *time.Time {
	t, err := time.Parse("2006-01-02 15:04", day+" "+clock)
	if err != nil {
		panic(err)
	}
	return &t
}

func done(day string, seq int, name, clock string) domain.CheckpointVisit {
	return domain.CheckpointVisit{
		Date:           day,
		CheckpointName: name,
		SequenceNumber: seq,
		CompletedAt:    at(day, clock),
		Status:         domain.StatusCompleted,
	}
}

func pending(day string, seq int, name string) domain.CheckpointVisit {
	return domain.CheckpointVisit{
		Date:           day,
		CheckpointName: name,
		SequenceNumber: seq,
		Status:         domain.StatusPending,
	}
}

func table(avgs ...domain.WaypointAverage) domain.AverageTable {
	t := make(domain.AverageTable)
	for _, a := range avgs {
		t.Put(a)
	}
	return t
}

func avg(name string, minutes, samples int) domain.WaypointAverage {
	return domain.WaypointAverage{
		CheckpointName:         name,
		AverageDurationMinutes: minutes,
		SampleSize:             samples,
		Confidence:             domain.TierForSamples(samples),
	}
}

func clockOf(p domain.PredictionResult) string {
	if p.PredictedAt == nil {
		return "nil"
	}
	return p.PredictedAt.Format("15:04")
}

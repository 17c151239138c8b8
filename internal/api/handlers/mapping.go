package handlers

import (
	"strings"
	"time"

	"waypoint-timing-service/internal/api/dto"
	"waypoint-timing-service/internal/domain"
)

func toVisits(in []dto.VisitRequest) []domain.CheckpointVisit {
	out := make([]domain.CheckpointVisit, 0, len(in))
	for _, v := range in {
		status := domain.VisitStatus(strings.ToLower(strings.TrimSpace(v.Status)))
		if status == "" {
			status = domain.StatusPending
			if v.CompletedAt != nil {
				status = domain.StatusCompleted
			}
		}
		out = append(out, domain.CheckpointVisit{
			Date:           strings.TrimSpace(v.Date),
			CheckpointName: v.CheckpointName,
			SequenceNumber: v.SequenceNumber,
			CompletedAt:    v.CompletedAt,
			Status:         status,
		})
	}
	return out
}

func clock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	if loc != nil {
		return t.In(loc).Format("15:04")
	}
	return t.Format("15:04")
}

func toForecastResponse(fc domain.Forecast, loc *time.Location) dto.ForecastResponse {
	preds := make([]dto.PredictionResponse, 0, len(fc.Predictions))
	for _, p := range fc.Predictions {
		preds = append(preds, dto.PredictionResponse{
			CheckpointName:            p.CheckpointName,
			SequenceNumber:            p.SequenceNumber,
			PredictedAt:               p.PredictedAt,
			PredictedClock:            clock(p.PredictedAt, loc),
			PredictedMinutesFromStart: p.PredictedMinutesFromStart,
			Confidence:                string(p.Confidence),
			ActualMinutes:             p.ActualMinutes,
			VarianceMinutes:           p.VarianceMinutes,
		})
	}

	return dto.ForecastResponse{
		RouteID:     fc.RouteID,
		Date:        fc.Date,
		DayType:     string(fc.DayType),
		Start:       fc.Start,
		HistoryDays: fc.HistoryDays,
		Predictions: preds,
		Progress: dto.ProgressResponse{
			Status:          string(fc.Progress.Status),
			CheckpointName:  fc.Progress.CheckpointName,
			VarianceMinutes: fc.Progress.VarianceMinutes,
			Message:         fc.Progress.Message,
		},
		Return: dto.ReturnResponse{
			Available:       fc.Return.Available,
			CheckpointName:  fc.Return.CheckpointName,
			PredictedAt:     fc.Return.PredictedAt,
			PredictedClock:  clock(fc.Return.PredictedAt, loc),
			Confidence:      string(fc.Return.Confidence),
			CompletionRatio: fc.Return.CompletionRatio,
		},
	}
}

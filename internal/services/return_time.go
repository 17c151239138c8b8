package services

import (
	"strings"

	"waypoint-timing-service/internal/domain"
)

// Phrasings workers use for the return-to-base checkpoint.
var returnNameHints = []string{
	"return",
	"back to office",
	"back at office",
	"back to base",
	"back to station",
	"arrive office",
	"arrive at office",
	"end of route",
}

func isReturnName(name string) bool {
	n := domain.NormalizeName(name)
	for _, h := range returnNameHints {
		if strings.Contains(n, h) {
			return true
		}
	}
	return false
}

// EstimateReturn reports the predicted return-to-base time.
//
// The last checkpoint with a return-like name is used. Its chained tier is
// raised to at least medium once half the route is done and to at least
// high at three quarters, since later predictions lean on real timestamps.
func EstimateReturn(checkpoints []domain.CheckpointVisit, predictions []domain.PredictionResult) domain.ReturnEstimate {
	idx := -1
	completed := 0
	for i, cp := range checkpoints {
		if isReturnName(cp.CheckpointName) {
			idx = i
		}
		if cp.Done() {
			completed++
		}
	}

	ratio := 0.0
	if len(checkpoints) > 0 {
		ratio = float64(completed) / float64(len(checkpoints))
	}

	if idx < 0 || idx >= len(predictions) || predictions[idx].PredictedAt == nil {
		return domain.ReturnEstimate{Confidence: domain.ConfidenceNone, CompletionRatio: ratio}
	}

	p := predictions[idx]
	tier := p.Confidence
	switch {
	case ratio >= 0.75:
		tier = tier.AtLeast(domain.ConfidenceHigh)
	case ratio >= 0.5:
		tier = tier.AtLeast(domain.ConfidenceMedium)
	}

	return domain.ReturnEstimate{
		Available:       true,
		CheckpointName:  p.CheckpointName,
		PredictedAt:     p.PredictedAt,
		Confidence:      tier,
		CompletionRatio: ratio,
	}
}

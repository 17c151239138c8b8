package services

import (
	"math"
	"time"

	"waypoint-timing-service/internal/domain"
)

// Duration used when a checkpoint has no history at all.
const DefaultSegmentMinutes = 6

type ChainInput struct {
	Checkpoints []domain.CheckpointVisit
	// Raw start: ISO 8601 timestamp or local "HH:MM".
	Start string
	// Calendar day (and location) a clock start is placed on. When zero the
	// first dated checkpoint's day is used, else today, both in Location.
	ServiceDate time.Time
	// Service time zone; nil means UTC.
	Location *time.Location
	// Returns the current time; nil means time.Now.
	Now      func() time.Time
	Averages domain.AverageTable
	// Optional positional fallback for names with no history.
	Baseline           *domain.DayTypeBaseline
	PauseOffsetMinutes int
}

// chainState is the fold accumulator: the resolved time of the previous
// checkpoint and its sequence number.
type chainState struct {
	start   time.Time
	anchor  time.Time
	prevSeq int
	hasPrev bool
}

type estimate struct {
	minutes int
	tier    domain.ConfidenceTier
}

// ChainPredictions forecasts a clock time for every checkpoint, in order.
//
// Each step adds a duration to the previous step's resolved time, so the
// pass is a left fold and cannot be parallelised. Completed checkpoints pin
// their prediction to the real timestamp and resynchronise the chain. The
// pause offset shifts displayed times only; the anchor stays unpaused so
// pauses never compound. An unparseable start yields nil predictions with
// tier none instead of an error.
func ChainPredictions(in ChainInput) []domain.PredictionResult {
	if len(in.Checkpoints) == 0 {
		return []domain.PredictionResult{}
	}

	start, ok := resolveStart(in)
	if !ok {
		return unavailablePredictions(in.Checkpoints)
	}

	pause := time.Duration(in.PauseOffsetMinutes) * time.Minute
	seed := chainState{start: start, anchor: start}

	return fold(in.Checkpoints, seed, func(s chainState, cp domain.CheckpointVisit) (chainState, domain.PredictionResult) {
		est := estimateStep(s, cp, in.Averages, in.Baseline)
		base := s.anchor.Add(time.Duration(est.minutes) * time.Minute)
		shown := base.Add(pause)

		res := domain.PredictionResult{
			CheckpointName: cp.CheckpointName,
			SequenceNumber: cp.SequenceNumber,
		}

		next := chainState{start: s.start, prevSeq: cp.SequenceNumber, hasPrev: true}

		if cp.Done() {
			actual := *cp.CompletedAt
			res.PredictedAt = &actual
			res.Confidence = domain.ConfidenceActual
			res.PredictedMinutesFromStart = intPtr(wholeMinutes(actual.Sub(s.start)))
			res.ActualMinutes = intPtr(wholeMinutes(actual.Sub(s.start)))
			res.VarianceMinutes = intPtr(wholeMinutes(actual.Sub(shown)))
			next.anchor = actual
			return next, res
		}

		res.PredictedAt = &shown
		res.Confidence = est.tier
		res.PredictedMinutesFromStart = intPtr(wholeMinutes(shown.Sub(s.start)))
		next.anchor = base
		return next, res
	})
}

// estimateStep picks the duration for cp: named average, then the
// positional baseline, then the fixed default.
func estimateStep(s chainState, cp domain.CheckpointVisit, avgs domain.AverageTable, baseline *domain.DayTypeBaseline) estimate {
	if a, ok := avgs.Lookup(cp.CheckpointName); ok && a.SampleSize > 0 {
		return estimate{minutes: a.AverageDurationMinutes, tier: a.Confidence}
	}

	if m, ok := baselineDelta(s, cp, baseline); ok {
		return estimate{minutes: m, tier: domain.TierForSamples(baseline.SampleSize)}
	}

	return estimate{minutes: DefaultSegmentMinutes, tier: domain.ConfidenceLow}
}

func baselineDelta(s chainState, cp domain.CheckpointVisit, b *domain.DayTypeBaseline) (int, bool) {
	if b == nil || b.SampleSize == 0 {
		return 0, false
	}

	cum, ok := b.AverageCumulativeBySequence[cp.SequenceNumber]
	if !ok {
		return 0, false
	}

	prev := 0
	if s.hasPrev {
		p, ok := b.AverageCumulativeBySequence[s.prevSeq]
		if !ok {
			return 0, false
		}
		prev = p
	}

	if cum < prev {
		return 0, false
	}
	return cum - prev, true
}

func resolveStart(in ChainInput) (time.Time, bool) {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	st, err := domain.ParseStartTime(in.Start, loc)
	if err != nil {
		return time.Time{}, false
	}

	day := in.ServiceDate
	if day.IsZero() && st.IsLocalClock() {
		day = serviceDay(in.Checkpoints, loc, in.Now)
	}

	return st.On(day)
}

// serviceDay is the first parseable checkpoint date in loc, or today there.
func serviceDay(cps []domain.CheckpointVisit, loc *time.Location, now func() time.Time) time.Time {
	for _, cp := range cps {
		if cp.Date == "" {
			continue
		}
		if d, err := time.ParseInLocation(domain.DateLayout, cp.Date, loc); err == nil {
			return d
		}
	}

	if now == nil {
		now = time.Now
	}
	y, m, d := now().In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func unavailablePredictions(cps []domain.CheckpointVisit) []domain.PredictionResult {
	out := make([]domain.PredictionResult, 0, len(cps))
	for _, cp := range cps {
		out = append(out, domain.PredictionResult{
			CheckpointName: cp.CheckpointName,
			SequenceNumber: cp.SequenceNumber,
			Confidence:     domain.ConfidenceNone,
		})
	}
	return out
}

// fold threads an accumulator through items, emitting one result per item.
func fold[S, T, R any](items []T, seed S, step func(S, T) (S, R)) []R {
	out := make([]R, 0, len(items))
	acc := seed
	for _, it := range items {
		var r R
		acc, r = step(acc, it)
		out = append(out, r)
	}
	return out
}

func wholeMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}

func intPtr(v int) *int { return &v }

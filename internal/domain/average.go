package domain

import "strings"

// ConfidenceTier summarizes how much evidence backs a prediction.
type ConfidenceTier string

const (
	ConfidenceNone   ConfidenceTier = "none"
	ConfidenceLow    ConfidenceTier = "low"
	ConfidenceMedium ConfidenceTier = "medium"
	ConfidenceHigh   ConfidenceTier = "high"
	ConfidenceActual ConfidenceTier = "actual"
)

var tierRank = map[ConfidenceTier]int{
	ConfidenceNone:   0,
	ConfidenceLow:    1,
	ConfidenceMedium: 2,
	ConfidenceHigh:   3,
	ConfidenceActual: 4,
}

// TierForSamples maps a sample count to its confidence tier.
func TierForSamples(n int) ConfidenceTier {
	switch {
	case n >= 10:
		return ConfidenceHigh
	case n >= 5:
		return ConfidenceMedium
	case n >= 1:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

// AtLeast returns the stronger of t and floor.
func (t ConfidenceTier) AtLeast(floor ConfidenceTier) ConfidenceTier {
	if tierRank[floor] > tierRank[t] {
		return floor
	}
	return t
}

// Mean historical duration for one checkpoint name.
type WaypointAverage struct {
	CheckpointName         string
	AverageDurationMinutes int
	SampleSize             int
	Confidence             ConfidenceTier
}

// AverageTable indexes averages by checkpoint name.
// Lookups ignore surrounding whitespace and letter case.
type AverageTable map[string]WaypointAverage

func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (t AverageTable) Lookup(name string) (WaypointAverage, bool) {
	if t == nil {
		return WaypointAverage{}, false
	}
	a, ok := t[NormalizeName(name)]
	return a, ok
}

func (t AverageTable) Put(a WaypointAverage) {
	t[NormalizeName(a.CheckpointName)] = a
}

// Position-keyed averages for one day type, used when checkpoint labels
// differ between days but relative position stays comparable.
type DayTypeBaseline struct {
	DayType                     DayType
	SampleSize                  int
	AverageCumulativeBySequence map[int]int
}

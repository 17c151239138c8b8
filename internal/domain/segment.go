package domain

// Upper bound for a single checkpoint-to-checkpoint duration.
// Longer gaps are treated as bad data (forgotten stop, midnight rollover).
const MaxSegmentMinutes = 180.0

// Time elapsed between two consecutive checkpoint completions on one day.
type Segment struct {
	CheckpointName              string
	SequenceNumber              int
	DurationFromPreviousMinutes float64
	CumulativeFromStartMinutes  float64
}

// The ordered segments derived from one day's completed visits.
type DaySegments struct {
	Date     string
	Segments []Segment
}

package services

import (
	"math"
	"strings"

	"waypoint-timing-service/internal/domain"
)

// DefaultBaselineDays is how many same-type days feed a positional baseline.
const DefaultBaselineDays = 10

// AggregateAverages groups every segment by checkpoint name and averages
// the duration-from-previous samples, rounded to whole minutes.
// The first spelling seen for a name is kept as its display name.
func AggregateAverages(days []domain.DaySegments) domain.AverageTable {
	type acc struct {
		name  string
		sum   float64
		count int
	}

	groups := make(map[string]*acc)
	order := make([]string, 0)
	for _, day := range days {
		for _, s := range day.Segments {
			key := domain.NormalizeName(s.CheckpointName)
			if key == "" {
				continue
			}
			g, ok := groups[key]
			if !ok {
				g = &acc{name: strings.TrimSpace(s.CheckpointName)}
				groups[key] = g
				order = append(order, key)
			}
			g.sum += s.DurationFromPreviousMinutes
			g.count++
		}
	}

	table := make(domain.AverageTable, len(groups))
	for _, key := range order {
		g := groups[key]
		table.Put(domain.WaypointAverage{
			CheckpointName:         g.name,
			AverageDurationMinutes: roundMinutes(g.sum / float64(g.count)),
			SampleSize:             g.count,
			Confidence:             domain.TierForSamples(g.count),
		})
	}

	return table
}

// AverageFor returns the average for a single checkpoint,
// or nil when the history holds no sample for it.
func AverageFor(days []domain.DaySegments, name string) *domain.WaypointAverage {
	key := domain.NormalizeName(name)
	if key == "" {
		return nil
	}

	var filtered []domain.DaySegments
	for _, day := range days {
		var segs []domain.Segment
		for _, s := range day.Segments {
			if domain.NormalizeName(s.CheckpointName) == key {
				segs = append(segs, s)
			}
		}
		if len(segs) > 0 {
			filtered = append(filtered, domain.DaySegments{Date: day.Date, Segments: segs})
		}
	}
	if len(filtered) == 0 {
		return nil
	}

	a, ok := AggregateAverages(filtered).Lookup(name)
	if !ok {
		return nil
	}
	return &a
}

// BuildDayTypeBaseline averages cumulative minutes by sequence position over
// the newest `limit` days. days must already be newest first and restricted
// to dayType; limit <= 0 means DefaultBaselineDays.
func BuildDayTypeBaseline(dayType domain.DayType, days []domain.DaySegments, limit int) domain.DayTypeBaseline {
	if limit <= 0 {
		limit = DefaultBaselineDays
	}
	if len(days) > limit {
		days = days[:limit]
	}

	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, day := range days {
		for _, s := range day.Segments {
			sums[s.SequenceNumber] += s.CumulativeFromStartMinutes
			counts[s.SequenceNumber]++
		}
	}

	bySeq := make(map[int]int, len(sums))
	for seq, sum := range sums {
		bySeq[seq] = roundMinutes(sum / float64(counts[seq]))
	}

	return domain.DayTypeBaseline{
		DayType:                     dayType,
		SampleSize:                  len(days),
		AverageCumulativeBySequence: bySeq,
	}
}

// FilterDays keeps only days whose date is in dates. A nil set keeps everything.
func FilterDays(days []domain.DaySegments, dates map[string]struct{}) []domain.DaySegments {
	if dates == nil {
		return days
	}

	out := make([]domain.DaySegments, 0, len(days))
	for _, d := range days {
		if _, ok := dates[d.Date]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Half away from zero, so 10.5 becomes 11.
func roundMinutes(m float64) int {
	return int(math.Round(m))
}

package services

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"waypoint-timing-service/internal/domain"
)

var anchorNameHints = []string{"start", "leave", "depart"}

// ExtractDaySegments converts one day's visits into duration samples.
//
// Only completed visits with a timestamp are considered. The anchor is the
// visit at sequence 0, else the first "start/leave" named visit, else the
// earliest completion. Every visit after the anchor yields one segment.
// Out-of-range gaps are clamped rather than dropped so a single mistimed
// stop cannot poison the averages.
func ExtractDaySegments(date string, visits []domain.CheckpointVisit) domain.DaySegments {
	out := domain.DaySegments{Date: date, Segments: []domain.Segment{}}

	done := make([]domain.CheckpointVisit, 0, len(visits))
	for _, v := range visits {
		if v.Done() {
			done = append(done, v)
		}
	}
	if len(done) == 0 {
		return out
	}

	// Stable so equal sequence numbers keep their record order.
	slices.SortStableFunc(done, func(a, b domain.CheckpointVisit) int {
		return cmp.Compare(a.SequenceNumber, b.SequenceNumber)
	})

	anchorIdx := findAnchor(done)
	anchorAt := *done[anchorIdx].CompletedAt
	prevAt := anchorAt

	for _, v := range done[anchorIdx+1:] {
		at := *v.CompletedAt

		out.Segments = append(out.Segments, domain.Segment{
			CheckpointName:              v.CheckpointName,
			SequenceNumber:              v.SequenceNumber,
			DurationFromPreviousMinutes: clampDuration(minutesBetween(prevAt, at)),
			CumulativeFromStartMinutes:  max(0, minutesBetween(anchorAt, at)),
		})
		prevAt = at
	}

	return out
}

// ExtractHistory groups raw records by date and extracts each day.
// Days without a single valid segment are skipped. Result is newest first.
func ExtractHistory(ctx context.Context, visits []domain.CheckpointVisit) []domain.DaySegments {
	byDate := make(map[string][]domain.CheckpointVisit)
	for _, v := range visits {
		d := strings.TrimSpace(v.Date)
		if d == "" {
			continue
		}
		byDate[d] = append(byDate[d], v)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	// YYYY-MM-DD sorts lexically.
	slices.Sort(dates)
	slices.Reverse(dates)

	days := make([]domain.DaySegments, 0, len(dates))
	for _, d := range dates {
		day := ExtractDaySegments(d, byDate[d])
		if len(day.Segments) == 0 {
			slog.DebugContext(ctx, "history day skipped", "date", d, "visits", len(byDate[d]), "reason", "no valid segments")
			continue
		}
		days = append(days, day)
	}

	return days
}

func findAnchor(sorted []domain.CheckpointVisit) int {
	for i, v := range sorted {
		if v.SequenceNumber == 0 {
			return i
		}
	}

	for i, v := range sorted {
		if isStartName(v.CheckpointName) {
			return i
		}
	}

	earliest := 0
	for i, v := range sorted {
		if v.CompletedAt.Before(*sorted[earliest].CompletedAt) {
			earliest = i
		}
	}
	return earliest
}

func isStartName(name string) bool {
	n := domain.NormalizeName(name)
	for _, h := range anchorNameHints {
		if strings.Contains(n, h) {
			return true
		}
	}
	return false
}

func minutesBetween(from, to time.Time) float64 {
	return to.Sub(from).Minutes()
}

func clampDuration(m float64) float64 {
	return min(domain.MaxSegmentMinutes, max(0, m))
}

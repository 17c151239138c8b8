package services

import (
	"testing"

	"waypoint-timing-service/internal/domain"
)

func segDay(date string, segs ...domain.Segment) domain.DaySegments {
	return domain.DaySegments{Date: date, Segments: segs}
}

func seg(name string, seq int, dur, cum float64) domain.Segment {
	return domain.Segment{
		CheckpointName:              name,
		SequenceNumber:              seq,
		DurationFromPreviousMinutes: dur,
		CumulativeFromStartMinutes:  cum,
	}
}

func TestAggregateAveragesParkPointScenario(t *testing.T) {
	days := []domain.DaySegments{
		segDay("2026-03-06", seg("Park Point 1", 1, 12, 12)),
		segDay("2026-03-05", seg("Park Point 1", 1, 8, 8)),
		segDay("2026-03-04", seg("Park Point 1", 1, 15, 15)),
		segDay("2026-03-03", seg("Park Point 1", 1, 9, 9)),
		segDay("2026-03-02", seg("Park Point 1", 1, 11, 11)),
	}

	got, ok := AggregateAverages(days).Lookup("Park Point 1")
	if !ok {
		t.Fatalf("expected an average for Park Point 1")
	}
	if got.AverageDurationMinutes != 11 {
		t.Errorf("average = %d, want 11", got.AverageDurationMinutes)
	}
	if got.SampleSize != 5 {
		t.Errorf("samples = %d, want 5", got.SampleSize)
	}
	if got.Confidence != domain.ConfidenceMedium {
		t.Errorf("tier = %s, want medium", got.Confidence)
	}
}

func TestAggregateAveragesRoundsHalfUp(t *testing.T) {
	days := []domain.DaySegments{
		segDay("2026-03-03", seg("A", 1, 10, 10), seg("B", 2, 3.2, 13.2)),
		segDay("2026-03-02", seg("a ", 1, 11, 11), seg("B", 2, 3.4, 14.4)),
	}

	avgs := AggregateAverages(days)

	a, _ := avgs.Lookup("A")
	if a.AverageDurationMinutes != 11 || a.SampleSize != 2 {
		t.Errorf("A = %+v, want 11 min over 2 samples", a)
	}
	if a.CheckpointName != "A" {
		t.Errorf("display name = %q, want first spelling %q", a.CheckpointName, "A")
	}

	b, _ := avgs.Lookup("B")
	if b.AverageDurationMinutes != 3 {
		t.Errorf("B = %d, want 3", b.AverageDurationMinutes)
	}
}

func TestTierForSamples(t *testing.T) {
	tests := []struct {
		n    int
		want domain.ConfidenceTier
	}{
		{0, domain.ConfidenceNone},
		{1, domain.ConfidenceLow},
		{3, domain.ConfidenceLow},
		{4, domain.ConfidenceLow},
		{5, domain.ConfidenceMedium},
		{7, domain.ConfidenceMedium},
		{9, domain.ConfidenceMedium},
		{10, domain.ConfidenceHigh},
		{12, domain.ConfidenceHigh},
	}

	for _, tt := range tests {
		if got := domain.TierForSamples(tt.n); got != tt.want {
			t.Errorf("TierForSamples(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestAverageForMissingNameIsNil(t *testing.T) {
	days := []domain.DaySegments{segDay("2026-03-02", seg("A", 1, 10, 10))}

	if got := AverageFor(days, "Unknown"); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
	if got := AverageFor(nil, "A"); got != nil {
		t.Fatalf("expected nil on empty history, got %+v", got)
	}

	got := AverageFor(days, "A")
	if got == nil || got.AverageDurationMinutes != 10 || got.SampleSize != 1 {
		t.Fatalf("AverageFor(A) = %+v", got)
	}
}

func TestBuildDayTypeBaselineUsesNewestDays(t *testing.T) {
	days := []domain.DaySegments{
		segDay("2026-03-09", seg("X", 1, 10, 10), seg("Y", 2, 10, 20)),
		segDay("2026-03-02", seg("P", 1, 12, 12), seg("Q", 2, 14, 26)),
		segDay("2026-02-23", seg("X", 1, 100, 100)),
	}

	b := BuildDayTypeBaseline(domain.DayTypeMonday, days, 2)

	if b.SampleSize != 2 {
		t.Fatalf("sample size = %d, want 2", b.SampleSize)
	}
	if b.DayType != domain.DayTypeMonday {
		t.Fatalf("day type = %s", b.DayType)
	}
	if got := b.AverageCumulativeBySequence[1]; got != 11 {
		t.Errorf("seq 1 = %d, want 11", got)
	}
	if got := b.AverageCumulativeBySequence[2]; got != 23 {
		t.Errorf("seq 2 = %d, want 23", got)
	}
}

func TestFilterDays(t *testing.T) {
	days := []domain.DaySegments{segDay("2026-03-03"), segDay("2026-03-02")}

	if got := FilterDays(days, nil); len(got) != 2 {
		t.Fatalf("nil filter should keep all, got %d", len(got))
	}

	got := FilterDays(days, map[string]struct{}{"2026-03-02": {}})
	if len(got) != 1 || got[0].Date != "2026-03-02" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
}

package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrUnparseableStartTime = errors.New("start time must be an ISO 8601 timestamp or HH:MM")

// Timestamp layouts without a zone offset; read in the service location.
var localTimestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

type startKind int

const (
	startInvalid startKind = iota
	startAbsolute
	startLocalClock
)

// StartTime is either an absolute instant or a bare local clock reading.
// The zero value is invalid.
type StartTime struct {
	kind   startKind
	abs    time.Time
	hour   int
	minute int
}

func AbsoluteStart(t time.Time) StartTime {
	return StartTime{kind: startAbsolute, abs: t}
}

func LocalClockStart(hour, minute int) StartTime {
	return StartTime{kind: startLocalClock, hour: hour, minute: minute}
}

// ParseStartTime accepts an RFC 3339 timestamp, an ISO 8601 timestamp without
// offset (read in loc, UTC when nil) or a local "HH:MM" string.
func ParseStartTime(raw string, loc *time.Location) (StartTime, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return StartTime{}, ErrUnparseableStartTime
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return AbsoluteStart(t), nil
	}
	for _, layout := range localTimestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return AbsoluteStart(t), nil
		}
	}

	if t, err := time.Parse("15:04", s); err == nil {
		return LocalClockStart(t.Hour(), t.Minute()), nil
	}

	return StartTime{}, fmt.Errorf("parse start time %q: %w", raw, ErrUnparseableStartTime)
}

func (s StartTime) Valid() bool { return s.kind != startInvalid }

func (s StartTime) IsLocalClock() bool { return s.kind == startLocalClock }

// On resolves the start against a service day. Absolute starts ignore the day;
// clock starts are placed on day's calendar date in day's location.
func (s StartTime) On(day time.Time) (time.Time, bool) {
	switch s.kind {
	case startAbsolute:
		return s.abs, true
	case startLocalClock:
		if day.IsZero() {
			return time.Time{}, false
		}
		y, m, d := day.Date()
		return time.Date(y, m, d, s.hour, s.minute, 0, 0, day.Location()), true
	default:
		return time.Time{}, false
	}
}

func (s StartTime) String() string {
	switch s.kind {
	case startAbsolute:
		return s.abs.Format(time.RFC3339)
	case startLocalClock:
		return fmt.Sprintf("%02d:%02d", s.hour, s.minute)
	default:
		return "invalid"
	}
}

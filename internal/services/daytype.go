package services

import (
	"time"

	"waypoint-timing-service/internal/domain"
)

// Classifier maps a calendar date to a day type.
// Implementations must be deterministic and stateless.
type Classifier interface {
	Classify(date time.Time) domain.DayType
}

// ClassifierFunc adapts a plain function to Classifier.
type ClassifierFunc func(date time.Time) domain.DayType

func (f ClassifierFunc) Classify(date time.Time) domain.DayType { return f(date) }

// CalendarClassifier is the default day-type strategy.
//
// Precedence, highest first: peak month, holiday or a day next to one,
// first scheduled weekday of the week, normal. A Tuesday following a
// Monday holiday is therefore holiday_adjacent rather than monday.
type CalendarClassifier struct {
	PeakMonth time.Month
	Holidays  map[string]struct{}
}

func NewCalendarClassifier(peak time.Month, holidays []string) *CalendarClassifier {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		if t, err := time.Parse(domain.DateLayout, h); err == nil {
			set[t.Format(domain.DateLayout)] = struct{}{}
		}
	}
	return &CalendarClassifier{PeakMonth: peak, Holidays: set}
}

func (c *CalendarClassifier) Classify(date time.Time) domain.DayType {
	if c.PeakMonth != 0 && date.Month() == c.PeakMonth {
		return domain.DayTypePeak
	}

	if c.isHoliday(date) || c.isHoliday(date.AddDate(0, 0, -1)) || c.isHoliday(date.AddDate(0, 0, 1)) {
		return domain.DayTypeHolidayAdjacent
	}

	if c.isFirstScheduledWeekday(date) {
		return domain.DayTypeMonday
	}

	return domain.DayTypeNormal
}

func (c *CalendarClassifier) isHoliday(date time.Time) bool {
	_, ok := c.Holidays[date.Format(domain.DateLayout)]
	return ok
}

// First Monday-to-Saturday day of the week that is not a holiday.
func (c *CalendarClassifier) isFirstScheduledWeekday(date time.Time) bool {
	if date.Weekday() == time.Sunday {
		return false
	}
	for d := date.AddDate(0, 0, -1); d.Weekday() != time.Sunday; d = d.AddDate(0, 0, -1) {
		if !c.isHoliday(d) {
			return false
		}
	}
	return !c.isHoliday(date)
}

// ClassifyDate classifies a YYYY-MM-DD string.
func ClassifyDate(c Classifier, date string) (domain.DayType, error) {
	t, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return "", err
	}
	return c.Classify(t), nil
}

// DatesOfType returns the subset of dates whose type matches want.
// Unparseable dates are left out.
func DatesOfType(c Classifier, dates []string, want domain.DayType) map[string]struct{} {
	out := make(map[string]struct{})
	for _, d := range dates {
		dt, err := ClassifyDate(c, d)
		if err != nil || dt != want {
			continue
		}
		out[d] = struct{}{}
	}
	return out
}

// SelectComparableDays keeps the newest `limit` days of type want.
// days must be ordered newest first; limit <= 0 means no cap.
func SelectComparableDays(c Classifier, days []domain.DaySegments, want domain.DayType, limit int) []domain.DaySegments {
	dates := make([]string, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.Date)
	}

	picked := FilterDays(days, DatesOfType(c, dates, want))
	if limit > 0 && len(picked) > limit {
		picked = picked[:limit]
	}
	return picked
}

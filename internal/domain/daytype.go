package domain

// DayType is a coarse category of calendar date used to pick comparable history.
type DayType string

const (
	DayTypeNormal          DayType = "normal"
	DayTypeMonday          DayType = "monday"
	DayTypePeak            DayType = "peak"
	DayTypeHolidayAdjacent DayType = "holiday_adjacent"
)

// DayTypeAll disables day-type filtering. It is only used as a cache key component.
const DayTypeAll DayType = "all"

package domain

import "time"

// DateLayout is the calendar-day format used for visit dates.
const DateLayout = "2006-01-02"

type VisitStatus string

const (
	StatusPending   VisitStatus = "pending"
	StatusCompleted VisitStatus = "completed"
)

// Represents one checkpoint on one day of a route.
// Visits are owned by the persistence layer; the engine only reads them.
// Checkpoint names recur across days and are the identity used for statistics.
type CheckpointVisit struct {
	Date           string
	CheckpointName string
	SequenceNumber int
	CompletedAt    *time.Time
	Status         VisitStatus
}

// Done reports whether the visit carries a usable completion timestamp.
func (v CheckpointVisit) Done() bool {
	return v.Status == StatusCompleted && v.CompletedAt != nil && !v.CompletedAt.IsZero()
}

package ports

import (
	"context"
	"errors"
	"waypoint-timing-service/internal/domain"
)

// Port: a boundary for retrieving checkpoint visits from a data source.
type VisitRepository interface {
	// Return every visit for the route with a date in [from, to], both YYYY-MM-DD.
	ListHistory(ctx context.Context, routeID string, from, to string) ([]domain.CheckpointVisit, error)
	// Return the planned checkpoints for one day, ordered by sequence number.
	ListCheckpoints(ctx context.Context, routeID string, date string) ([]domain.CheckpointVisit, error)
}

// Returned by repositories that are temporarily refusing calls
// (e.g. an open circuit breaker). Callers may degrade instead of failing.
var ErrRepositoryUnavailable = errors.New("visit repository: unavailable")

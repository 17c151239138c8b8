package ports

import (
	"context"
	"errors"
	"fmt"

	"waypoint-timing-service/internal/domain"
)

var (
	ErrCacheMiss = errors.New("averages cache: miss")
	// Route ids containing the key separator cannot be cached.
	ErrInvalidCacheKey = errors.New("averages cache: invalid key")
)

// Identifies one aggregation of a route's history.
type AveragesKey struct {
	RouteID      string
	DayType      domain.DayType
	LookbackDays int
	// Last day included in the window, YYYY-MM-DD.
	AsOf string
}

func (k AveragesKey) String() string {
	return fmt.Sprintf("%s:%s:%d:%s", k.RouteID, k.DayType, k.LookbackDays, k.AsOf)
}

// Aggregated averages plus the number of history days they came from.
type CachedAverages struct {
	Averages    domain.AverageTable
	HistoryDays int
}

// Contract for caching aggregated averages between requests.
type AveragesCache interface {
	// Return ErrCacheMiss when nothing is stored under key.
	Get(ctx context.Context, key AveragesKey) (CachedAverages, error)
	Put(ctx context.Context, key AveragesKey, entry CachedAverages) error
	// Drop every cached aggregation for the route.
	Invalidate(ctx context.Context, routeID string) error
}

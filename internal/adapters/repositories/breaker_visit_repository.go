package repositories

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"waypoint-timing-service/internal/domain"
	"waypoint-timing-service/internal/ports"

	"github.com/sony/gobreaker/v2"
)

// BreakerVisitRepository guards history reads with a circuit breaker.
// While the breaker is open, ListHistory fails fast with
// ports.ErrRepositoryUnavailable so forecasts can fall back to defaults.
// ListCheckpoints is passed through: without today's list there is nothing
// to forecast.
type BreakerVisitRepository struct {
	next    ports.VisitRepository
	breaker *gobreaker.CircuitBreaker[[]domain.CheckpointVisit]
}

type BreakerSettings struct {
	Name                string
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

func NewBreakerVisitRepository(next ports.VisitRepository, s BreakerSettings) *BreakerVisitRepository {
	if s.Name == "" {
		s.Name = "visit-history"
	}
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[[]domain.CheckpointVisit](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not a database failure.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &BreakerVisitRepository{next: next, breaker: cb}
}

func (b *BreakerVisitRepository) ListHistory(
	ctx context.Context,
	routeID string,
	from string,
	to string,
) ([]domain.CheckpointVisit, error) {
	visits, err := b.breaker.Execute(func() ([]domain.CheckpointVisit, error) {
		return b.next.ListHistory(ctx, routeID, from, to)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("list history: %w: %v", ports.ErrRepositoryUnavailable, err)
	}
	return visits, err
}

func (b *BreakerVisitRepository) ListCheckpoints(ctx context.Context, routeID string, date string) ([]domain.CheckpointVisit, error) {
	return b.next.ListCheckpoints(ctx, routeID, date)
}

// State exposes the breaker state for health reporting.
func (b *BreakerVisitRepository) State() gobreaker.State {
	return b.breaker.State()
}

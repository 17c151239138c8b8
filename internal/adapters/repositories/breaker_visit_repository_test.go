package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"waypoint-timing-service/internal/domain"
	"waypoint-timing-service/internal/ports"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	err   error
	calls int
}

func (s *stubRepo) ListHistory(context.Context, string, string, string) ([]domain.CheckpointVisit, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []domain.CheckpointVisit{{CheckpointName: "A"}}, nil
}

func (s *stubRepo) ListCheckpoints(context.Context, string, string) ([]domain.CheckpointVisit, error) {
	return []domain.CheckpointVisit{{CheckpointName: "today"}}, nil
}

func TestBreakerVisitRepositoryOpensAfterFailures(t *testing.T) {
	stub := &stubRepo{err: errors.New("db down")}
	repo := NewBreakerVisitRepository(stub, BreakerSettings{ConsecutiveFailures: 2, OpenTimeout: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := repo.ListHistory(ctx, "C014", "2026-01-01", "2026-03-04")
		require.Error(t, err)
		assert.False(t, errors.Is(err, ports.ErrRepositoryUnavailable))
	}
	assert.Equal(t, gobreaker.StateOpen, repo.State())

	_, err := repo.ListHistory(ctx, "C014", "2026-01-01", "2026-03-04")
	require.ErrorIs(t, err, ports.ErrRepositoryUnavailable)
	assert.Equal(t, 2, stub.calls, "open breaker must not reach the database")

	// Today's list is never short-circuited.
	cps, err := repo.ListCheckpoints(ctx, "C014", "2026-03-05")
	require.NoError(t, err)
	assert.Len(t, cps, 1)
}

func TestBreakerVisitRepositoryPassesThrough(t *testing.T) {
	repo := NewBreakerVisitRepository(&stubRepo{}, BreakerSettings{})

	visits, err := repo.ListHistory(context.Background(), "C014", "2026-01-01", "2026-03-04")
	require.NoError(t, err)
	assert.Len(t, visits, 1)
	assert.Equal(t, gobreaker.StateClosed, repo.State())
}

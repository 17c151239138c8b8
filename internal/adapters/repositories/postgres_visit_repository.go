package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"waypoint-timing-service/internal/domain"
	"waypoint-timing-service/internal/platform/db"
	"waypoint-timing-service/internal/platform/obs"

	"github.com/jackc/pgx/v5"
)

// Postgres-backed implementation of the VisitRepository port.
type PostgresVisitRepository struct {
	DB db.Querier
}

func NewPostgresVisitRepository(q db.Querier) *PostgresVisitRepository {
	return &PostgresVisitRepository{DB: q}
}

const selectVisitColumns = `
	SELECT
		to_char(visit_date, 'YYYY-MM-DD'),
		checkpoint_name,
		sequence_number,
		completed_at,
		status
	FROM checkpoint_visits
`

// Return all visits for the route between from and to inclusive.
func (r *PostgresVisitRepository) ListHistory(
	ctx context.Context,
	routeID string,
	from string,
	to string,
) (_ []domain.CheckpointVisit, err error) {
	defer obs.Time(ctx, "visits.ListHistory")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres visit repository: DB is nil")
	}
	if strings.TrimSpace(routeID) == "" {
		return nil, errors.New("list history: route id must not be empty")
	}

	q := selectVisitColumns + `
	WHERE route_id = $1
		AND visit_date BETWEEN $2::date AND $3::date
	ORDER BY visit_date, sequence_number;
	`

	rows, err := r.DB.Query(ctx, q, routeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list history: query checkpoint_visits table: %w", err)
	}

	visits, err := scanVisits(rows)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return visits, nil
}

// Return the checkpoints planned for one day in sequence order.
func (r *PostgresVisitRepository) ListCheckpoints(
	ctx context.Context,
	routeID string,
	date string,
) (_ []domain.CheckpointVisit, err error) {
	defer obs.Time(ctx, "visits.ListCheckpoints")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres visit repository: DB is nil")
	}
	if strings.TrimSpace(routeID) == "" {
		return nil, errors.New("list checkpoints: route id must not be empty")
	}

	q := selectVisitColumns + `
	WHERE route_id = $1
		AND visit_date = $2::date
	ORDER BY sequence_number;
	`

	rows, err := r.DB.Query(ctx, q, routeID, date)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: query checkpoint_visits table: %w", err)
	}

	visits, err := scanVisits(rows)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	return visits, nil
}

func scanVisits(rows pgx.Rows) ([]domain.CheckpointVisit, error) {
	defer rows.Close()

	visits := make([]domain.CheckpointVisit, 0, 64)
	for rows.Next() {
		var (
			date, name, status string
			seq                int
			completedAt        *time.Time
		)
		if err := rows.Scan(&date, &name, &seq, &completedAt, &status); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		visits = append(visits, domain.CheckpointVisit{
			Date:           date,
			CheckpointName: name,
			SequenceNumber: seq,
			CompletedAt:    completedAt,
			Status:         domain.VisitStatus(status),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}

	return visits, nil
}

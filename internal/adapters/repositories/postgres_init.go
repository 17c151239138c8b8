package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"waypoint-timing-service/internal/domain"
	"waypoint-timing-service/internal/platform/db"
)

// Initialize the Postgres schema.
func InitSchema(ctx context.Context, q db.Querier) error {
	if q == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	createVisitsQuery := `
	CREATE TABLE IF NOT EXISTS checkpoint_visits (
		route_id TEXT NOT NULL,
		visit_date DATE NOT NULL,
		sequence_number INTEGER NOT NULL,
		checkpoint_name TEXT NOT NULL,
		completed_at TIMESTAMPTZ,
		status TEXT NOT NULL DEFAULT 'pending',
		PRIMARY KEY (route_id, visit_date, sequence_number)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_checkpoint_visits_route_name
	ON checkpoint_visits(route_id, checkpoint_name);
	`

	statements := []string{
		createVisitsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type VisitSeed struct {
	RouteID        string     `json:"route_id"`
	Date           string     `json:"date"`
	CheckpointName string     `json:"checkpoint_name"`
	SequenceNumber int        `json:"sequence_number"`
	CompletedAt    *time.Time `json:"completed_at"`
}

// Populate the database with visit history from a JSON file.
func SeedFromJSON(ctx context.Context, q db.Querier, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed visits: read %q: %w", jsonPath, err)
	}

	var data []VisitSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed visits: parse json: %w", err)
	}

	return SeedVisits(ctx, q, data)
}

// Upsert visit rows. A row with a completion time is stored as completed.
func SeedVisits(ctx context.Context, q db.Querier, data []VisitSeed) (int, error) {
	rows := make([]VisitSeed, 0, len(data))
	for i, item := range data {
		item.RouteID = strings.TrimSpace(item.RouteID)
		if item.RouteID == "" {
			return 0, fmt.Errorf("seed visits: item at index %d: route_id cannot be empty", i+1)
		}
		if _, err := time.Parse(domain.DateLayout, item.Date); err != nil {
			return 0, fmt.Errorf("seed visits: item at index %d: invalid date %q", i+1, item.Date)
		}
		item.CheckpointName = strings.TrimSpace(item.CheckpointName)
		if item.CheckpointName == "" {
			return 0, fmt.Errorf("seed visits: item at index %d: checkpoint_name cannot be empty", i+1)
		}
		rows = append(rows, item)
	}

	tx, err := q.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed visits: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
	INSERT INTO checkpoint_visits (
		route_id,
		visit_date,
		sequence_number,
		checkpoint_name,
		completed_at,
		status
	)
	VALUES ($1, $2::date, $3, $4, $5, $6)
	ON CONFLICT (route_id, visit_date, sequence_number) DO UPDATE
	SET checkpoint_name = EXCLUDED.checkpoint_name,
		completed_at = EXCLUDED.completed_at,
		status = EXCLUDED.status;
	`

	for _, v := range rows {
		status := domain.StatusPending
		if v.CompletedAt != nil {
			status = domain.StatusCompleted
		}
		if _, err := tx.Exec(ctx, query, v.RouteID, v.Date, v.SequenceNumber, v.CheckpointName, v.CompletedAt, string(status)); err != nil {
			return 0, fmt.Errorf("seed visits: insert route=%s date=%s seq=%d: %w", v.RouteID, v.Date, v.SequenceNumber, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("seed visits: commit tx: %w", err)
	}

	return len(rows), nil
}

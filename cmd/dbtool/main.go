package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"waypoint-timing-service/internal/adapters/repositories"
	"waypoint-timing-service/internal/config"
	"waypoint-timing-service/internal/platform/db"
)

func main() {
	cfg, err := config.LoadDBTool()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.Open(ctx, cfg.DatabaseURL, db.PoolOptions{MaxConns: 2})
	if err != nil {
		slog.Error("open database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := initAndSeed(ctx, pool, cfg.SeedPath); err != nil {
		slog.Error("init and seed", "err", err)
		pool.Close()
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, q db.Querier, seedPath string) error {
	slog.Info("Initializing database schema...")
	if err := repositories.InitSchema(ctx, q); err != nil {
		return err
	}
	slog.Info("Schema ready.")

	slog.Info("Seeding database...", "path", seedPath)
	n, err := repositories.SeedFromJSON(ctx, q, seedPath)
	if err != nil {
		return err
	}
	slog.Info("Seeding complete.", "visits", n)

	return nil
}

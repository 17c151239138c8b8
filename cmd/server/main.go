package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"waypoint-timing-service/internal/adapters/cache"
	"waypoint-timing-service/internal/adapters/repositories"
	"waypoint-timing-service/internal/api"
	"waypoint-timing-service/internal/config"
	"waypoint-timing-service/internal/platform/db"
	"waypoint-timing-service/internal/platform/obs"
	"waypoint-timing-service/internal/services"

	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(obs.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat))

	ctx := context.Background()

	pool, err := db.Open(ctx, cfg.DatabaseURL, db.PoolOptions{MaxConns: 10, MaxConnLifetime: 30 * time.Minute})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := repositories.InitSchema(ctx, pool); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	// History reads go through a breaker so a struggling database degrades
	// forecasts to default durations instead of failing them.
	repo := repositories.NewBreakerVisitRepository(
		repositories.NewPostgresVisitRepository(pool),
		repositories.BreakerSettings{
			ConsecutiveFailures: cfg.Forecast.BreakerFailures,
			OpenTimeout:         cfg.Forecast.BreakerTimeout,
		},
	)

	classifier := services.NewCalendarClassifier(time.Month(cfg.Forecast.PeakMonth), cfg.Forecast.Holidays)

	forecaster := &services.Forecaster{
		Repo:         repo,
		Classifier:   classifier,
		Location:     cfg.Location(),
		LookbackDays: cfg.Forecast.LookbackDays,
		BaselineDays: cfg.Forecast.BaselineDays,
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password})
		defer rdb.Close()
		forecaster.Cache = cache.NewRedisAveragesCache(rdb, cfg.Redis.TTL)
		slog.Info("averages cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	router := api.NewRouter(api.Deps{
		Forecaster:   forecaster,
		Classifier:   classifier,
		Location:     cfg.Location(),
		BaselineDays: cfg.Forecast.BaselineDays,
	})

	slog.Info("server listening", "addr", ":"+cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv.ListenAndServe()
}

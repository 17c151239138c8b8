// Package config loads process configuration from the environment.
//
// Values come from the OS environment, optionally primed from a .env file.
// Existing environment variables always win over .env entries.
package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	DatabaseURL string `envconfig:"DATABASE_URL" validate:"required"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
	Timezone    string `envconfig:"TIMEZONE" default:"UTC" validate:"required"`
	SeedPath    string `envconfig:"SEED_PATH" default:"data/seeds/visits.json"`

	Redis    RedisConfig
	Forecast ForecastConfig
}

type RedisConfig struct {
	// Empty disables the averages cache.
	Addr     string        `envconfig:"REDIS_ADDR"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	TTL      time.Duration `envconfig:"CACHE_TTL" default:"6h" validate:"gte=0"`
}

type ForecastConfig struct {
	LookbackDays int `envconfig:"LOOKBACK_DAYS" default:"60" validate:"gte=1,lte=730"`
	BaselineDays int `envconfig:"BASELINE_DAYS" default:"10" validate:"gte=1,lte=100"`
	PeakMonth    int `envconfig:"PEAK_MONTH" default:"12" validate:"gte=0,lte=12"`
	// YYYY-MM-DD, comma separated.
	Holidays []string `envconfig:"HOLIDAYS" validate:"dive,datetime=2006-01-02"`

	BreakerFailures uint32        `envconfig:"BREAKER_FAILURES" default:"5" validate:"gte=1"`
	BreakerTimeout  time.Duration `envconfig:"BREAKER_TIMEOUT" default:"30s"`
}

// Load reads .env (if present), binds the environment and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load()
}

func load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: process env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("load config: validate: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("load config: timezone %q: %w", cfg.Timezone, err)
	}

	return &cfg, nil
}

// Location returns the configured service time zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DBToolConfig is the subset of settings the schema/seed tool needs.
type DBToolConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL" validate:"required"`
	SeedPath    string `envconfig:"SEED_PATH" default:"data/seeds/visits.json" validate:"required"`
}

// LoadDBTool reads .env (if present) and binds the dbtool settings.
func LoadDBTool() (*DBToolConfig, error) {
	_ = godotenv.Load()
	return loadDBTool()
}

func loadDBTool() (*DBToolConfig, error) {
	var cfg DBToolConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load dbtool config: process env: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("load dbtool config: validate: %w", err)
	}
	return &cfg, nil
}

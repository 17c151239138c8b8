package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"waypoint-timing-service/internal/domain"
	"waypoint-timing-service/internal/platform/obs"
	"waypoint-timing-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

const DefaultLookbackDays = 60

var ErrInvalidRequest = errors.New("invalid forecast request")

// PredictRequest carries already-loaded records; nothing is fetched.
type PredictRequest struct {
	History     []domain.CheckpointVisit
	Checkpoints []domain.CheckpointVisit
	Start       string
	ServiceDate time.Time
	// Zone for clock starts and offset-less timestamps; nil means UTC.
	Location           *time.Location
	Now                func() time.Time
	PauseOffsetMinutes int
	// Optional day-type filter: only history on these dates is used.
	// When set, a positional baseline is also built from them.
	DayTypeDates map[string]struct{}
	DayType      domain.DayType
	BaselineDays int
}

// PredictFromRecords runs the whole engine over caller-supplied records.
func PredictFromRecords(ctx context.Context, req PredictRequest) domain.Forecast {
	days := FilterDays(ExtractHistory(ctx, req.History), req.DayTypeDates)

	var baseline *domain.DayTypeBaseline
	if req.DayTypeDates != nil {
		b := BuildDayTypeBaseline(req.DayType, days, req.BaselineDays)
		baseline = &b
	}

	fc := assemble(ChainInput{
		Checkpoints:        req.Checkpoints,
		Start:              req.Start,
		ServiceDate:        req.ServiceDate,
		Location:           req.Location,
		Now:                req.Now,
		Averages:           AggregateAverages(days),
		Baseline:           baseline,
		PauseOffsetMinutes: req.PauseOffsetMinutes,
	})
	fc.DayType = req.DayType
	fc.HistoryDays = len(days)
	if !req.ServiceDate.IsZero() {
		fc.Date = req.ServiceDate.Format(domain.DateLayout)
	}
	return fc
}

type ForecastRequest struct {
	RouteID            string
	Date               string
	Start              string
	PauseOffsetMinutes int
	DayTypeAware       bool
	// Zero means the forecaster's default.
	LookbackDays int
}

// Forecaster loads a route's records and runs the engine over them.
type Forecaster struct {
	Repo       ports.VisitRepository
	Cache      ports.AveragesCache
	Classifier Classifier
	Location   *time.Location

	LookbackDays int
	BaselineDays int
}

// Forecast predicts every checkpoint of req.Date for req.RouteID.
//
// History covers the lookback window ending the day before req.Date and is
// loaded concurrently with today's list. Averages are served from the cache
// when possible. If the history store is unavailable the forecast degrades
// to default durations instead of failing.
func (f *Forecaster) Forecast(ctx context.Context, req ForecastRequest) (_ *domain.Forecast, err error) {
	defer obs.Time(ctx, "forecast")(&err)

	routeID := strings.TrimSpace(req.RouteID)
	if routeID == "" {
		return nil, fmt.Errorf("forecast: %w: route id must not be empty", ErrInvalidRequest)
	}

	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation(domain.DateLayout, req.Date, loc)
	if err != nil {
		return nil, fmt.Errorf("forecast: %w: date %q: %v", ErrInvalidRequest, req.Date, err)
	}

	lookback := req.LookbackDays
	if lookback <= 0 {
		lookback = f.LookbackDays
	}
	if lookback <= 0 {
		lookback = DefaultLookbackDays
	}

	dayType := domain.DayTypeAll
	if req.DayTypeAware && f.Classifier != nil {
		dayType = f.Classifier.Classify(day)
	}

	key := ports.AveragesKey{
		RouteID:      routeID,
		DayType:      dayType,
		LookbackDays: lookback,
		AsOf:         day.AddDate(0, 0, -1).Format(domain.DateLayout),
	}

	entry, cached := f.cachedAverages(ctx, key)
	needHistory := !cached || req.DayTypeAware

	var (
		today   []domain.CheckpointVisit
		history []domain.CheckpointVisit
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cps, err := f.Repo.ListCheckpoints(gctx, routeID, req.Date)
		if err != nil {
			return fmt.Errorf("forecast: list checkpoints: %w", err)
		}
		today = cps
		return nil
	})
	if needHistory {
		g.Go(func() error {
			from := day.AddDate(0, 0, -lookback).Format(domain.DateLayout)
			visits, err := f.Repo.ListHistory(gctx, routeID, from, key.AsOf)
			if errors.Is(err, ports.ErrRepositoryUnavailable) {
				slog.WarnContext(ctx, "history unavailable, using defaults", "route_id", routeID, "err", err)
				return nil
			}
			if err != nil {
				return fmt.Errorf("forecast: list history: %w", err)
			}
			history = visits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	days := ExtractHistory(ctx, history)

	var baseline *domain.DayTypeBaseline
	if req.DayTypeAware && f.Classifier != nil {
		days = SelectComparableDays(f.Classifier, days, dayType, 0)
		b := BuildDayTypeBaseline(dayType, days, f.BaselineDays)
		baseline = &b
	}

	averages, historyDays := entry.Averages, entry.HistoryDays
	if needHistory {
		historyDays = len(days)
	}
	if !cached {
		averages = AggregateAverages(days)
		if len(history) > 0 {
			f.storeAverages(ctx, key, ports.CachedAverages{Averages: averages, HistoryDays: historyDays})
		}
	}

	fc := assemble(ChainInput{
		Checkpoints:        today,
		Start:              req.Start,
		ServiceDate:        day,
		Location:           loc,
		Averages:           averages,
		Baseline:           baseline,
		PauseOffsetMinutes: req.PauseOffsetMinutes,
	})
	fc.RouteID = routeID
	fc.Date = req.Date
	fc.DayType = dayType
	fc.HistoryDays = historyDays

	return &fc, nil
}

// InvalidateAverages drops cached aggregations for a route, e.g. after its
// history was corrected.
func (f *Forecaster) InvalidateAverages(ctx context.Context, routeID string) error {
	if f.Cache == nil {
		return nil
	}
	err := f.Cache.Invalidate(ctx, routeID)
	if errors.Is(err, ports.ErrInvalidCacheKey) {
		return fmt.Errorf("invalidate averages: %w: %v", ErrInvalidRequest, err)
	}
	if err != nil {
		return fmt.Errorf("invalidate averages: route %q: %w", routeID, err)
	}
	return nil
}

func (f *Forecaster) cachedAverages(ctx context.Context, key ports.AveragesKey) (ports.CachedAverages, bool) {
	if f.Cache == nil {
		return ports.CachedAverages{}, false
	}

	entry, err := f.Cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			slog.WarnContext(ctx, "averages cache read failed", "key", key.String(), "err", err)
		}
		return ports.CachedAverages{}, false
	}
	return entry, true
}

func (f *Forecaster) storeAverages(ctx context.Context, key ports.AveragesKey, entry ports.CachedAverages) {
	if f.Cache == nil {
		return
	}
	if err := f.Cache.Put(ctx, key, entry); err != nil {
		slog.WarnContext(ctx, "averages cache write failed", "key", key.String(), "err", err)
	}
}

func assemble(in ChainInput) domain.Forecast {
	preds := ChainPredictions(in)
	return domain.Forecast{
		Start:       in.Start,
		Predictions: preds,
		Progress:    EvaluateProgress(in.Checkpoints, preds),
		Return:      EstimateReturn(in.Checkpoints, preds),
	}
}

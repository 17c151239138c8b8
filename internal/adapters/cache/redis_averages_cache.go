package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"waypoint-timing-service/internal/domain"
	"waypoint-timing-service/internal/platform/obs"
	"waypoint-timing-service/internal/ports"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "averages"

// RedisAveragesCache stores aggregated averages as JSON with a TTL.
// Keys are "averages:<route>:<day type>:<lookback>:<as of>".
type RedisAveragesCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisAveragesCache(client *redis.Client, ttl time.Duration) *RedisAveragesCache {
	return &RedisAveragesCache{Client: client, TTL: ttl}
}

type cachedEntry struct {
	HistoryDays int                      `json:"history_days"`
	Averages    []domain.WaypointAverage `json:"averages"`
}

func redisKey(k ports.AveragesKey) string {
	return keyPrefix + ":" + k.String()
}

func checkRouteID(routeID string) error {
	if strings.TrimSpace(routeID) == "" {
		return fmt.Errorf("%w: route id must not be empty", ports.ErrInvalidCacheKey)
	}
	if strings.Contains(routeID, ":") {
		return fmt.Errorf("%w: route id %q contains ':'", ports.ErrInvalidCacheKey, routeID)
	}
	return nil
}

// escapeGlob quotes the characters SCAN MATCH treats as wildcards.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Fetch the cached table for key.
func (c *RedisAveragesCache) Get(ctx context.Context, key ports.AveragesKey) (_ ports.CachedAverages, err error) {
	defer obs.Time(ctx, "averages.cache.Get")(&err)

	if c.Client == nil {
		return ports.CachedAverages{}, errors.New("averages cache: client is nil")
	}
	if err := checkRouteID(key.RouteID); err != nil {
		return ports.CachedAverages{}, fmt.Errorf("get averages cache: %w", err)
	}

	raw, err := c.Client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.CachedAverages{}, ports.ErrCacheMiss
	}
	if err != nil {
		return ports.CachedAverages{}, fmt.Errorf("get averages cache: %w", err)
	}

	var entry cachedEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return ports.CachedAverages{}, fmt.Errorf("get averages cache: decode %q: %w", redisKey(key), err)
	}

	table := make(domain.AverageTable, len(entry.Averages))
	for _, a := range entry.Averages {
		table.Put(a)
	}
	return ports.CachedAverages{Averages: table, HistoryDays: entry.HistoryDays}, nil
}

// Store entry under key, replacing any previous value.
func (c *RedisAveragesCache) Put(ctx context.Context, key ports.AveragesKey, entry ports.CachedAverages) error {
	if c.Client == nil {
		return errors.New("averages cache: client is nil")
	}
	if err := checkRouteID(key.RouteID); err != nil {
		return fmt.Errorf("put averages cache: %w", err)
	}

	stored := cachedEntry{
		HistoryDays: entry.HistoryDays,
		Averages:    make([]domain.WaypointAverage, 0, len(entry.Averages)),
	}
	for _, a := range entry.Averages {
		stored.Averages = append(stored.Averages, a)
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("put averages cache: encode: %w", err)
	}

	if err := c.Client.Set(ctx, redisKey(key), raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("put averages cache: %w", err)
	}
	return nil
}

// Delete every aggregation cached for routeID.
func (c *RedisAveragesCache) Invalidate(ctx context.Context, routeID string) error {
	if c.Client == nil {
		return errors.New("averages cache: client is nil")
	}
	if err := checkRouteID(routeID); err != nil {
		return fmt.Errorf("invalidate averages cache: %w", err)
	}

	pattern := keyPrefix + ":" + escapeGlob(routeID) + ":*"
	iter := c.Client.Scan(ctx, 0, pattern, 100).Iterator()

	keys := make([]string, 0, 16)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("invalidate averages cache: scan %q: %w", pattern, err)
	}

	if len(keys) == 0 {
		return nil
	}
	if err := c.Client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate averages cache: delete %d keys: %w", len(keys), err)
	}
	return nil
}

package cache

import (
	"context"
	"testing"
	"time"

	"waypoint-timing-service/internal/domain"
	"waypoint-timing-service/internal/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisAveragesCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisAveragesCache(client, time.Hour), mr
}

func sampleEntry() ports.CachedAverages {
	t := make(domain.AverageTable)
	t.Put(domain.WaypointAverage{CheckpointName: "Park Point 1", AverageDurationMinutes: 11, SampleSize: 5, Confidence: domain.ConfidenceMedium})
	t.Put(domain.WaypointAverage{CheckpointName: "Return to office", AverageDurationMinutes: 20, SampleSize: 12, Confidence: domain.ConfidenceHigh})
	return ports.CachedAverages{Averages: t, HistoryDays: 12}
}

func TestRedisAveragesCacheRoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := ports.AveragesKey{RouteID: "C014", DayType: domain.DayTypeAll, LookbackDays: 60, AsOf: "2026-03-04"}

	_, err := c.Get(ctx, key)
	require.ErrorIs(t, err, ports.ErrCacheMiss)

	require.NoError(t, c.Put(ctx, key, sampleEntry()))
	assert.Equal(t, time.Hour, mr.TTL("averages:C014:all:60:2026-03-04"))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)

	pp1, ok := got.Averages.Lookup("park point 1")
	require.True(t, ok)
	assert.Equal(t, 11, pp1.AverageDurationMinutes)
	assert.Equal(t, domain.ConfidenceMedium, pp1.Confidence)
	assert.Len(t, got.Averages, 2)
	assert.Equal(t, 12, got.HistoryDays)
}

func TestRedisAveragesCacheExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	key := ports.AveragesKey{RouteID: "C014", DayType: domain.DayTypeMonday, LookbackDays: 60, AsOf: "2026-03-08"}

	require.NoError(t, c.Put(ctx, key, sampleEntry()))
	mr.FastForward(2 * time.Hour)

	_, err := c.Get(ctx, key)
	require.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestRedisAveragesCacheInvalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	keys := []ports.AveragesKey{
		{RouteID: "C014", DayType: domain.DayTypeAll, LookbackDays: 60, AsOf: "2026-03-04"},
		{RouteID: "C014", DayType: domain.DayTypeMonday, LookbackDays: 30, AsOf: "2026-03-08"},
		{RouteID: "C015", DayType: domain.DayTypeAll, LookbackDays: 60, AsOf: "2026-03-04"},
	}
	for _, k := range keys {
		require.NoError(t, c.Put(ctx, k, sampleEntry()))
	}

	require.NoError(t, c.Invalidate(ctx, "C014"))

	assert.False(t, mr.Exists("averages:C014:all:60:2026-03-04"))
	assert.False(t, mr.Exists("averages:C014:monday:30:2026-03-08"))
	assert.True(t, mr.Exists("averages:C015:all:60:2026-03-04"))

	require.NoError(t, c.Invalidate(ctx, "unknown"))
	require.Error(t, c.Invalidate(ctx, " "))
}

func TestRedisAveragesCacheCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	key := ports.AveragesKey{RouteID: "C014", DayType: domain.DayTypeAll, LookbackDays: 60, AsOf: "2026-03-04"}

	require.NoError(t, mr.Set("averages:"+key.String(), "{not json"))

	_, err := c.Get(context.Background(), key)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ports.ErrCacheMiss)
}

func TestRedisAveragesCacheInvalidateTreatsRouteLiterally(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for _, route := range []string{"route-1", "route-2", "*", "r?"} {
		key := ports.AveragesKey{RouteID: route, DayType: domain.DayTypeAll, LookbackDays: 60, AsOf: "2026-03-04"}
		require.NoError(t, c.Put(ctx, key, sampleEntry()))
	}

	require.NoError(t, c.Invalidate(ctx, "*"))
	assert.False(t, mr.Exists("averages:*:all:60:2026-03-04"))
	assert.True(t, mr.Exists("averages:route-1:all:60:2026-03-04"))
	assert.True(t, mr.Exists("averages:route-2:all:60:2026-03-04"))
	assert.True(t, mr.Exists("averages:r?:all:60:2026-03-04"))

	require.NoError(t, c.Invalidate(ctx, "route-?"))
	require.NoError(t, c.Invalidate(ctx, "route-[12]"))
	assert.True(t, mr.Exists("averages:route-1:all:60:2026-03-04"))
	assert.True(t, mr.Exists("averages:route-2:all:60:2026-03-04"))

	require.NoError(t, c.Invalidate(ctx, "r?"))
	assert.False(t, mr.Exists("averages:r?:all:60:2026-03-04"))
	assert.True(t, mr.Exists("averages:route-1:all:60:2026-03-04"))
}

func TestRedisAveragesCacheRejectsSeparatorInRoute(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, ports.AveragesKey{RouteID: "a", DayType: domain.DayTypeAll, LookbackDays: 60, AsOf: "2026-03-04"}, sampleEntry()))

	err := c.Put(ctx, ports.AveragesKey{RouteID: "a:b", DayType: domain.DayTypeAll, LookbackDays: 60, AsOf: "2026-03-04"}, sampleEntry())
	require.ErrorIs(t, err, ports.ErrInvalidCacheKey)

	_, err = c.Get(ctx, ports.AveragesKey{RouteID: "a:b", DayType: domain.DayTypeAll, LookbackDays: 60, AsOf: "2026-03-04"})
	require.ErrorIs(t, err, ports.ErrInvalidCacheKey)

	require.ErrorIs(t, c.Invalidate(ctx, "a:all"), ports.ErrInvalidCacheKey)
	assert.True(t, mr.Exists("averages:a:all:60:2026-03-04"))
}

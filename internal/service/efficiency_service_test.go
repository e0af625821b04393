package service

import (
	"context"
	"encoding/json"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-app/cadenza-api/internal/models"
	"github.com/cadenza-app/cadenza-api/pkg/config"
	"github.com/cadenza-app/cadenza-api/pkg/errors"
)

type stubCache struct {
	entries  map[string][]byte
	gets     int
	sets     int
	patterns []string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string][]byte)}
}

func (s *stubCache) Get(_ context.Context, key string, dest any) error {
	s.gets++
	raw, ok := s.entries[key]
	if !ok {
		return errors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *stubCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.entries[key] = raw
	return nil
}

func (s *stubCache) DeleteByPattern(_ context.Context, pattern string) error {
	s.patterns = append(s.patterns, pattern)
	for key := range s.entries {
		if matched, _ := path.Match(pattern, key); matched {
			delete(s.entries, key)
		}
	}
	return nil
}

func newTestEfficiencyService(availability *stubAvailability, bookings *stubBookings, cache *stubCache) *EfficiencyService {
	if availability == nil {
		availability = &stubAvailability{}
	}
	if bookings == nil {
		bookings = &stubBookings{}
	}
	var cacheSvc *CacheService
	if cache != nil {
		cacheSvc = NewCacheService(cache, nil)
	} else {
		cacheSvc = NewCacheService(nil, nil)
	}
	cfg := config.EfficiencyConfig{Enabled: cache != nil, CacheTTL: time.Minute}
	return NewEfficiencyService(availability, bookings, cacheSvc, nil, cfg, nil)
}

func TestReportComputesUtilization(t *testing.T) {
	availability := &stubAvailability{windows: []models.AvailabilityWindow{
		mondayWindow("w1", "t1", 540, 660),
	}}
	bookings := &stubBookings{records: []models.Booking{
		mondayBooking("b1", "t1", "s1", 540, 600),
	}}
	svc := newTestEfficiencyService(availability, bookings, nil)

	report, err := svc.Report(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", report.TeacherID)
	assert.InDelta(t, 50.0, report.UtilizationRate, 0.01)
}

func TestReportRequiresTeacherID(t *testing.T) {
	svc := newTestEfficiencyService(nil, nil, nil)

	_, err := svc.Report(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", errors.FromError(err).Code)
}

func TestReportServesSecondReadFromCache(t *testing.T) {
	availability := &stubAvailability{windows: []models.AvailabilityWindow{
		mondayWindow("w1", "t1", 540, 660),
	}}
	bookings := &stubBookings{records: []models.Booking{
		mondayBooking("b1", "t1", "s1", 540, 600),
	}}
	cache := newStubCache()
	svc := newTestEfficiencyService(availability, bookings, cache)

	first, err := svc.Report(context.Background(), "t1")
	require.NoError(t, err)
	require.Equal(t, 1, cache.sets)

	second, err := svc.Report(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, first.UtilizationRate, second.UtilizationRate)
	assert.Equal(t, 1, cache.sets, "second read should not recompute")
	assert.Equal(t, 2, cache.gets)
}

func TestInvalidateDropsCachedReport(t *testing.T) {
	availability := &stubAvailability{windows: []models.AvailabilityWindow{
		mondayWindow("w1", "t1", 540, 660),
	}}
	cache := newStubCache()
	svc := newTestEfficiencyService(availability, &stubBookings{}, cache)

	_, err := svc.Report(context.Background(), "t1")
	require.NoError(t, err)

	svc.Invalidate(context.Background(), "t1")
	require.Len(t, cache.patterns, 1)
	assert.Equal(t, "efficiency:t1", cache.patterns[0])
	assert.Empty(t, cache.entries)
}

func TestInvalidateLeavesOtherTeachersCached(t *testing.T) {
	availability := &stubAvailability{windows: []models.AvailabilityWindow{
		mondayWindow("w1", "t1", 540, 660),
		mondayWindow("w2", "t10", 540, 660),
	}}
	cache := newStubCache()
	svc := newTestEfficiencyService(availability, &stubBookings{}, cache)

	_, err := svc.Report(context.Background(), "t1")
	require.NoError(t, err)
	_, err = svc.Report(context.Background(), "t10")
	require.NoError(t, err)

	svc.Invalidate(context.Background(), "t1")
	_, stillCached := cache.entries["efficiency:t10"]
	assert.True(t, stillCached, "invalidating one teacher must not touch another whose ID extends it")
	_, dropped := cache.entries["efficiency:t1"]
	assert.False(t, dropped)
}

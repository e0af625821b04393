package service

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cadenza-app/cadenza-api/internal/engine"
	"github.com/cadenza-app/cadenza-api/internal/models"
	"github.com/cadenza-app/cadenza-api/pkg/config"
	"github.com/cadenza-app/cadenza-api/pkg/errors"
)

const efficiencyKeyPrefix = "efficiency:"

type windowLister interface {
	ListActiveByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityWindow, error)
}

type bookingLister interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Booking, error)
}

// EfficiencyService computes schedule efficiency reports for teachers, with
// a cache-aside layer so repeated dashboard reads skip recomputation.
type EfficiencyService struct {
	windows  windowLister
	bookings bookingLister
	cache    *CacheService
	metrics  *MetricsService
	cfg      config.EfficiencyConfig
	logger   *zap.Logger
}

func NewEfficiencyService(
	windows windowLister,
	bookings bookingLister,
	cache *CacheService,
	metrics *MetricsService,
	cfg config.EfficiencyConfig,
	logger *zap.Logger,
) *EfficiencyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &EfficiencyService{
		windows:  windows,
		bookings: bookings,
		cache:    cache,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger,
	}
}

// Report returns the efficiency report for a teacher, serving from cache
// when a fresh copy exists.
func (s *EfficiencyService) Report(ctx context.Context, teacherID string) (*models.EfficiencyReport, error) {
	if teacherID == "" {
		return nil, errors.Clone(errors.ErrValidation, "teacher id is required")
	}

	key := efficiencyKeyPrefix + teacherID
	if s.cfg.Enabled && s.cache.Enabled() {
		var cached models.EfficiencyReport
		lookupStart := time.Now()
		err := s.cache.Get(ctx, key, &cached)
		s.metrics.RecordCacheOperation(err == nil, time.Since(lookupStart))
		if err == nil && cached.TeacherID != "" {
			return &cached, nil
		}
	}

	bookings, err := s.bookings.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to load bookings")
	}
	windows, err := s.windows.ListActiveByTeacher(ctx, teacherID)
	if err != nil {
		return nil, errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to load availability")
	}

	computeStart := time.Now()
	report := engine.Analyze(bookings, windows)
	report.TeacherID = teacherID
	s.metrics.ObserveEngineOperation("analyze_efficiency", time.Since(computeStart))

	if s.cfg.Enabled && s.cache.Enabled() {
		writeStart := time.Now()
		s.cache.Set(ctx, key, report, s.cfg.CacheTTL)
		s.metrics.ObserveCacheWrite(time.Since(writeStart))
	}
	return &report, nil
}

// Invalidate drops the cached report after a booking changes the teacher's
// schedule. The key is exact; a wildcard would also match teachers whose ID
// extends this one.
func (s *EfficiencyService) Invalidate(ctx context.Context, teacherID string) {
	if s == nil || teacherID == "" {
		return
	}
	if !s.cfg.Enabled || !s.cache.Enabled() {
		return
	}
	s.cache.Invalidate(ctx, efficiencyKeyPrefix+teacherID)
}

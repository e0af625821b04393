package service

import (
	"context"
	"database/sql"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cadenza-app/cadenza-api/internal/dto"
	"github.com/cadenza-app/cadenza-api/internal/engine"
	"github.com/cadenza-app/cadenza-api/internal/models"
	"github.com/cadenza-app/cadenza-api/pkg/config"
	"github.com/cadenza-app/cadenza-api/pkg/errors"
)

type availabilityReader interface {
	ListActiveByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityWindow, error)
	ListActiveByTeacherAndDay(ctx context.Context, teacherID string, day models.Weekday) ([]models.AvailabilityWindow, error)
	FindByID(ctx context.Context, id string) (*models.AvailabilityWindow, error)
}

type bookingStore interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.Booking, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Booking, error)
	ListByLocationAndDay(ctx context.Context, location string, day models.Weekday) ([]models.Booking, error)
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	Create(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id string) error
}

type commitmentReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.ExternalCommitment, error)
	ListByStudentAndKind(ctx context.Context, studentID string, kind models.CommitmentKind) ([]models.ExternalCommitment, error)
}

type reportInvalidator interface {
	Invalidate(ctx context.Context, teacherID string)
}

// teacherLocks hands out one mutex per teacher so that the read-detect-commit
// sequence of a booking never interleaves with another booking for the same
// teacher. Locks are never reclaimed; the teacher population is small.
type teacherLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newTeacherLocks() *teacherLocks {
	return &teacherLocks{locks: make(map[string]*sync.Mutex)}
}

func (t *teacherLocks) forTeacher(teacherID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.locks[teacherID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[teacherID] = lock
	}
	return lock
}

// SchedulingService loads commitment snapshots from storage, runs the
// availability engine over them, and owns the booking lifecycle.
type SchedulingService struct {
	availability availabilityReader
	bookings     bookingStore
	commitments  commitmentReader
	reports      reportInvalidator
	metrics      *MetricsService
	cfg          config.EngineConfig
	validator    *validator.Validate
	logger       *zap.Logger
	locks        *teacherLocks
}

func NewSchedulingService(
	availability availabilityReader,
	bookings bookingStore,
	commitments commitmentReader,
	reports reportInvalidator,
	metrics *MetricsService,
	cfg config.EngineConfig,
	logger *zap.Logger,
) *SchedulingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SampleStepMinutes <= 0 {
		cfg.SampleStepMinutes = engine.DefaultSampleStepMinutes
	}
	if len(cfg.AllowedDurations) == 0 {
		cfg.AllowedDurations = models.LessonDurations
	}
	if cfg.MaxAlternatives <= 0 {
		cfg.MaxAlternatives = engine.DefaultMaxAlternatives
	}
	if cfg.OptimalBufferMins < 0 {
		cfg.OptimalBufferMins = engine.DefaultOptimalBufferMinutes
	}
	if cfg.MaxOptimalResults <= 0 {
		cfg.MaxOptimalResults = engine.DefaultMaxOptimalResults
	}
	return &SchedulingService{
		availability: availability,
		bookings:     bookings,
		commitments:  commitments,
		reports:      reports,
		metrics:      metrics,
		cfg:          cfg,
		validator:    validator.New(),
		logger:       logger,
		locks:        newTeacherLocks(),
	}
}

// GenerateSlots produces bookable candidates across a teacher's active
// windows. Candidates colliding with the teacher's bookings are filtered
// out; durations that cannot be processed are reported as failures without
// aborting the rest.
func (s *SchedulingService) GenerateSlots(ctx context.Context, req dto.GenerateSlotsRequest) (*dto.GenerateSlotsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, errors.Wrap(err, "VALIDATION_ERROR", http.StatusBadRequest, "invalid slot generation request")
	}
	started := time.Now()
	defer func() { s.metrics.ObserveEngineOperation("generate_slots", time.Since(started)) }()

	windows, err := s.loadWindows(ctx, req.TeacherID, req.Day)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, engine.EmptyAvailability(req.TeacherID)
	}

	bookings, err := s.bookings.ListByTeacher(ctx, req.TeacherID)
	if err != nil {
		return nil, errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to load bookings")
	}

	durations := req.Durations
	if len(durations) == 0 {
		durations = s.cfg.AllowedDurations
	}
	step := req.StepMins
	if step <= 0 {
		step = s.cfg.SampleStepMinutes
	}

	var slots []models.TimeSlot
	failed := make(map[int]engine.DurationFailure)
	for _, window := range windows {
		generation, err := engine.GenerateSlots(window, bookings, durations, step)
		if err != nil {
			return nil, err
		}
		slots = append(slots, generation.Slots...)
		for _, failure := range generation.Failures {
			failed[failure.DurationMinutes] = failure
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Day != slots[j].Day {
			return slots[i].Day < slots[j].Day
		}
		if slots[i].StartMinutes != slots[j].StartMinutes {
			return slots[i].StartMinutes < slots[j].StartMinutes
		}
		return slots[i].DurationMinutes < slots[j].DurationMinutes
	})

	failures := make([]engine.DurationFailure, 0, len(failed))
	for _, duration := range durations {
		if failure, ok := failed[duration]; ok {
			failures = append(failures, failure)
		}
	}

	return &dto.GenerateSlotsResponse{
		TeacherID: req.TeacherID,
		Slots:     dto.NewSlotPayloads(slots),
		Failures:  failures,
	}, nil
}

// DetectConflicts checks a proposed slot against every commitment the
// teacher and student already hold and reports each collision.
func (s *SchedulingService) DetectConflicts(ctx context.Context, req dto.DetectConflictsRequest) (*dto.DetectConflictsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, errors.Wrap(err, "VALIDATION_ERROR", http.StatusBadRequest, "invalid conflict detection request")
	}
	if req.Proposed.TeacherID == "" || req.Proposed.StudentID == "" {
		return nil, errors.Clone(errors.ErrValidation, "teacherId and studentId are required on the proposed slot")
	}
	proposed, err := req.Proposed.ToModel()
	if err != nil {
		return nil, err
	}

	started := time.Now()
	defer func() { s.metrics.ObserveEngineOperation("detect_conflicts", time.Since(started)) }()

	snapshot, err := s.loadConflictContext(ctx, proposed)
	if err != nil {
		return nil, err
	}
	conflicts, err := engine.DetectConflicts(proposed, snapshot)
	if err != nil {
		return nil, err
	}
	for _, conflict := range conflicts {
		s.metrics.CountConflict(string(conflict.Type))
	}

	return &dto.DetectConflictsResponse{
		Conflicts: dto.NewConflictPayloads(conflicts),
		Blocking:  engine.HasBlocking(conflicts),
	}, nil
}

// SuggestAlternatives proposes replacement slots for a proposal that failed
// conflict detection, scanning the teacher's windows in order.
func (s *SchedulingService) SuggestAlternatives(ctx context.Context, req dto.SuggestAlternativesRequest) ([]dto.SlotPayload, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, errors.Wrap(err, "VALIDATION_ERROR", http.StatusBadRequest, "invalid alternatives request")
	}
	if req.Failed.TeacherID == "" {
		return nil, errors.Clone(errors.ErrValidation, "teacherId is required on the failed slot")
	}
	failed, err := req.Failed.ToModel()
	if err != nil {
		return nil, err
	}

	started := time.Now()
	defer func() { s.metrics.ObserveEngineOperation("suggest_alternatives", time.Since(started)) }()

	windows, err := s.loadWindows(ctx, failed.OwnerID, nil)
	if err != nil {
		return nil, err
	}
	bookings, err := s.bookings.ListByTeacher(ctx, failed.OwnerID)
	if err != nil {
		return nil, errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to load bookings")
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = s.cfg.MaxAlternatives
	}
	alternatives, err := engine.SuggestAlternatives(failed, windows, bookings, maxResults)
	if err != nil {
		return nil, err
	}
	return dto.NewSlotPayloads(alternatives), nil
}

// Pack tiles one availability window back to back with lessons of a single
// duration, leaving no recoverable gaps.
func (s *SchedulingService) Pack(ctx context.Context, req dto.PackRequest) ([]dto.SlotPayload, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, errors.Wrap(err, "VALIDATION_ERROR", http.StatusBadRequest, "invalid pack request")
	}

	window, err := s.availability.FindByID(ctx, req.WindowID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Clone(errors.ErrNotFound, "availability window not found")
		}
		return nil, errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to load availability window")
	}
	if window.TeacherID != req.TeacherID {
		return nil, errors.Clone(errors.ErrNotFound, "availability window not found")
	}

	started := time.Now()
	defer func() { s.metrics.ObserveEngineOperation("pack", time.Since(started)) }()

	slots, err := engine.PackBackToBack(*window, req.DurationMinutes)
	if err != nil {
		return nil, err
	}
	return dto.NewSlotPayloads(slots), nil
}

// FindOptimalSlots ranks candidate slots for a teacher-student pairing,
// preferring windows that begin at one of the requested start times and
// spacing candidates with a travel buffer.
func (s *SchedulingService) FindOptimalSlots(ctx context.Context, req dto.FindOptimalSlotsRequest) ([]dto.SlotPayload, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, errors.Wrap(err, "VALIDATION_ERROR", http.StatusBadRequest, "invalid optimal slots request")
	}

	started := time.Now()
	defer func() { s.metrics.ObserveEngineOperation("find_optimal_slots", time.Since(started)) }()

	windows, err := s.loadWindows(ctx, req.TeacherID, nil)
	if err != nil {
		return nil, err
	}
	if len(windows) == 0 {
		return nil, engine.EmptyAvailability(req.TeacherID)
	}

	commitments, err := s.loadCommitments(ctx, req.TeacherID, req.StudentID)
	if err != nil {
		return nil, err
	}

	buffer := s.cfg.OptimalBufferMins
	if req.BufferMinutes != nil {
		buffer = *req.BufferMinutes
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = s.cfg.MaxOptimalResults
	}

	slots, err := engine.FindOptimalSlots(windows, commitments, req.DurationMinutes, req.PreferredStartTimes, buffer, maxResults)
	if err != nil {
		return nil, err
	}
	return dto.NewSlotPayloads(slots), nil
}

// CommitBooking runs conflict detection over a fresh snapshot and persists
// the booking when it passes. The whole read-detect-commit sequence holds
// the teacher's lock so concurrent requests for the same teacher serialize.
// Blocking conflicts always reject; advisory conflicts reject unless the
// caller set allowOverride.
func (s *SchedulingService) CommitBooking(ctx context.Context, req dto.CreateBookingRequest) (*dto.CreateBookingResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, errors.Wrap(err, "VALIDATION_ERROR", http.StatusBadRequest, "invalid booking request")
	}
	start, err := engine.ToMinutes(req.StartTime)
	if err != nil {
		return nil, err
	}

	proposed := models.TimeSlot{
		Day:             models.Weekday(req.Day),
		StartMinutes:    start,
		EndMinutes:      start + req.DurationMinutes,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
		OwnerID:         req.TeacherID,
		SubjectID:       req.StudentID,
	}

	started := time.Now()
	defer func() { s.metrics.ObserveEngineOperation("commit_booking", time.Since(started)) }()

	lock := s.locks.forTeacher(req.TeacherID)
	lock.Lock()
	defer lock.Unlock()

	snapshot, err := s.loadConflictContext(ctx, proposed)
	if err != nil {
		return nil, err
	}
	conflicts, err := engine.DetectConflicts(proposed, snapshot)
	if err != nil {
		return nil, err
	}
	for _, conflict := range conflicts {
		s.metrics.CountConflict(string(conflict.Type))
	}
	if engine.HasBlocking(conflicts) {
		return nil, errors.Clone(errors.ErrConflict, "slot conflicts with an existing booking")
	}
	if len(conflicts) > 0 && !req.AllowOverride {
		return nil, errors.Clone(errors.ErrConflict, "slot has advisory conflicts; set allowOverride to book anyway")
	}

	booking := &models.Booking{
		TeacherID:       req.TeacherID,
		StudentID:       req.StudentID,
		Day:             proposed.Day,
		StartMinutes:    proposed.StartMinutes,
		EndMinutes:      proposed.EndMinutes,
		DurationMinutes: proposed.DurationMinutes,
		Location:        req.Location,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to create booking")
	}

	s.logger.Info("booking committed",
		zap.String("booking_id", booking.ID),
		zap.String("teacher_id", booking.TeacherID),
		zap.Int("overridden_conflicts", len(conflicts)),
	)
	if s.reports != nil {
		s.reports.Invalidate(ctx, req.TeacherID)
	}

	return &dto.CreateBookingResponse{
		Booking:    booking,
		Overridden: dto.NewConflictPayloads(conflicts),
	}, nil
}

// CancelBooking removes a booking. Cancellation is the booking's only
// mutation; there are no partial edits.
func (s *SchedulingService) CancelBooking(ctx context.Context, bookingID string) error {
	if bookingID == "" {
		return errors.Clone(errors.ErrValidation, "booking id is required")
	}

	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.Clone(errors.ErrNotFound, "booking not found")
		}
		return errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to load booking")
	}

	lock := s.locks.forTeacher(booking.TeacherID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.bookings.Delete(ctx, bookingID); err != nil {
		if err == sql.ErrNoRows {
			return errors.Clone(errors.ErrNotFound, "booking not found")
		}
		return errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to cancel booking")
	}

	s.logger.Info("booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("teacher_id", booking.TeacherID),
	)
	if s.reports != nil {
		s.reports.Invalidate(ctx, booking.TeacherID)
	}
	return nil
}

func (s *SchedulingService) loadWindows(ctx context.Context, teacherID string, day *int) ([]models.AvailabilityWindow, error) {
	var (
		windows []models.AvailabilityWindow
		err     error
	)
	if day != nil {
		windows, err = s.availability.ListActiveByTeacherAndDay(ctx, teacherID, models.Weekday(*day))
	} else {
		windows, err = s.availability.ListActiveByTeacher(ctx, teacherID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to load availability")
	}
	return windows, nil
}

func (s *SchedulingService) loadConflictContext(ctx context.Context, proposed models.TimeSlot) (engine.ConflictContext, error) {
	var snapshot engine.ConflictContext

	teacherBookings, err := s.bookings.ListByTeacher(ctx, proposed.OwnerID)
	if err != nil {
		return snapshot, errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to load teacher bookings")
	}
	studentBookings, err := s.bookings.ListByStudent(ctx, proposed.SubjectID)
	if err != nil {
		return snapshot, errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to load student bookings")
	}
	rehearsals, err := s.commitments.ListByStudentAndKind(ctx, proposed.SubjectID, models.CommitmentRehearsal)
	if err != nil {
		return snapshot, errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to load rehearsals")
	}
	theory, err := s.commitments.ListByStudentAndKind(ctx, proposed.SubjectID, models.CommitmentTheory)
	if err != nil {
		return snapshot, errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to load theory lessons")
	}

	snapshot = engine.ConflictContext{
		TeacherBookings: teacherBookings,
		StudentBookings: studentBookings,
		Rehearsals:      rehearsals,
		TheoryLessons:   theory,
	}
	if proposed.Location != "" {
		roomBookings, err := s.bookings.ListByLocationAndDay(ctx, proposed.Location, proposed.Day)
		if err != nil {
			return snapshot, errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to load room bookings")
		}
		snapshot.RoomBookings = roomBookings
	}
	return snapshot, nil
}

func (s *SchedulingService) loadCommitments(ctx context.Context, teacherID, studentID string) ([]models.Commitment, error) {
	teacherBookings, err := s.bookings.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to load teacher bookings")
	}
	studentBookings, err := s.bookings.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to load student bookings")
	}
	external, err := s.commitments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "INTERNAL_ERROR", http.StatusInternalServerError, "failed to load student commitments")
	}

	commitments := make([]models.Commitment, 0, len(teacherBookings)+len(studentBookings)+len(external))
	for _, b := range teacherBookings {
		commitments = append(commitments, b)
	}
	for _, b := range studentBookings {
		commitments = append(commitments, b)
	}
	for _, c := range external {
		commitments = append(commitments, c)
	}
	return commitments, nil
}

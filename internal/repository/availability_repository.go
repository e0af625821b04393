package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/cadenza-app/cadenza-api/internal/models"
)

// AvailabilityRepository loads teacher availability windows. The engine
// requires pre-filtered active windows, so filtering happens in SQL.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListActiveByTeacher returns the teacher's active windows ordered by day
// and start time.
func (r *AvailabilityRepository) ListActiveByTeacher(ctx context.Context, teacherID string) ([]models.AvailabilityWindow, error) {
	query := `SELECT id, teacher_id, day_of_week, start_minutes, end_minutes, location, is_active, created_at, updated_at
		FROM availability_windows
		WHERE teacher_id = $1 AND is_active = TRUE
		ORDER BY day_of_week, start_minutes`

	windows := []models.AvailabilityWindow{}
	if err := r.db.SelectContext(ctx, &windows, query, teacherID); err != nil {
		return nil, err
	}
	return windows, nil
}

// ListActiveByTeacherAndDay narrows the active windows to one weekday.
func (r *AvailabilityRepository) ListActiveByTeacherAndDay(ctx context.Context, teacherID string, day models.Weekday) ([]models.AvailabilityWindow, error) {
	query := `SELECT id, teacher_id, day_of_week, start_minutes, end_minutes, location, is_active, created_at, updated_at
		FROM availability_windows
		WHERE teacher_id = $1 AND day_of_week = $2 AND is_active = TRUE
		ORDER BY start_minutes`

	windows := []models.AvailabilityWindow{}
	if err := r.db.SelectContext(ctx, &windows, query, teacherID, int(day)); err != nil {
		return nil, err
	}
	return windows, nil
}

// FindByID returns a single window regardless of its active flag.
func (r *AvailabilityRepository) FindByID(ctx context.Context, id string) (*models.AvailabilityWindow, error) {
	query := `SELECT id, teacher_id, day_of_week, start_minutes, end_minutes, location, is_active, created_at, updated_at
		FROM availability_windows WHERE id = $1`

	var window models.AvailabilityWindow
	if err := r.db.GetContext(ctx, &window, query, id); err != nil {
		return nil, err
	}
	return &window, nil
}

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cadenza-app/cadenza-api/internal/models"
)

const bookingColumns = `id, teacher_id, student_id, day_of_week, start_minutes, end_minutes, duration_minutes, location, created_at`

// BookingRepository is the authoritative store for committed lessons.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// ListByTeacher returns every booking held by the teacher.
func (r *BookingRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE teacher_id = $1
		ORDER BY day_of_week, start_minutes`

	bookings := []models.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, teacherID); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListByStudent returns every booking held by the student.
func (r *BookingRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE student_id = $1
		ORDER BY day_of_week, start_minutes`

	bookings := []models.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, studentID); err != nil {
		return nil, err
	}
	return bookings, nil
}

// ListByLocationAndDay returns every booking in a room on one weekday,
// regardless of teacher or student.
func (r *BookingRepository) ListByLocationAndDay(ctx context.Context, location string, day models.Weekday) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
		WHERE location = $1 AND day_of_week = $2
		ORDER BY start_minutes`

	bookings := []models.Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, location, int(day)); err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindByID returns a single booking.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

// Create inserts a committed booking.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	booking.CreatedAt = time.Now().UTC()

	query := `INSERT INTO bookings (id, teacher_id, student_id, day_of_week, start_minutes, end_minutes, duration_minutes, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.TeacherID,
		booking.StudentID,
		int(booking.Day),
		booking.StartMinutes,
		booking.EndMinutes,
		booking.DurationMinutes,
		booking.Location,
		booking.CreatedAt,
	)
	return err
}

// Delete cancels a booking. Bookings have no partial edits; cancellation
// is the only mutation.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-app/cadenza-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func availabilityRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "teacher_id", "day_of_week", "start_minutes", "end_minutes", "location", "is_active", "created_at", "updated_at"})
}

func TestAvailabilityRepositoryListActiveByTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM availability_windows").
		WithArgs("teacher-1").
		WillReturnRows(availabilityRows().
			AddRow("win-1", "teacher-1", 1, 900, 990, "Room5", true, now, now).
			AddRow("win-2", "teacher-1", 3, 540, 720, "", true, now, now))

	windows, err := repo.ListActiveByTeacher(context.Background(), "teacher-1")
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, models.Monday, windows[0].Day)
	assert.Equal(t, 900, windows[0].StartMinutes)
	assert.True(t, windows[0].IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryListActiveByTeacherAndDay(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM availability_windows").
		WithArgs("teacher-1", 2).
		WillReturnRows(availabilityRows().
			AddRow("win-1", "teacher-1", 2, 600, 660, "", true, now, now))

	windows, err := repo.ListActiveByTeacherAndDay(context.Background(), "teacher-1", models.Tuesday)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, models.Tuesday, windows[0].Day)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryListEmpty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM availability_windows").
		WithArgs("teacher-9").
		WillReturnRows(availabilityRows())

	windows, err := repo.ListActiveByTeacher(context.Background(), "teacher-9")
	require.NoError(t, err)
	assert.Empty(t, windows)
	assert.NotNil(t, windows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

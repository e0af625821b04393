package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-app/cadenza-api/internal/models"
)

func commitmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "student_id", "kind", "label", "day_of_week", "start_minutes", "end_minutes", "location", "created_at"})
}

func TestCommitmentRepositoryListByStudentAndKind(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCommitmentRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM student_commitments").
		WithArgs("student-1", "rehearsal").
		WillReturnRows(commitmentRows().
			AddRow("com-1", "student-1", "rehearsal", "youth orchestra", 1, 540, 660, "Hall A", now))

	commitments, err := repo.ListByStudentAndKind(context.Background(), "student-1", models.CommitmentRehearsal)
	require.NoError(t, err)
	require.Len(t, commitments, 1)
	assert.Equal(t, models.CommitmentRehearsal, commitments[0].Kind)
	assert.Equal(t, 540, commitments[0].StartMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitmentRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCommitmentRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM student_commitments").
		WithArgs("student-1").
		WillReturnRows(commitmentRows().
			AddRow("com-1", "student-1", "rehearsal", "", 1, 540, 660, "", now).
			AddRow("com-2", "student-1", "theory", "", 3, 900, 960, "", now))

	commitments, err := repo.ListByStudent(context.Background(), "student-1")
	require.NoError(t, err)
	require.Len(t, commitments, 2)
	assert.Equal(t, models.CommitmentTheory, commitments[1].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

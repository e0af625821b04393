package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/cadenza-app/cadenza-api/internal/models"
)

const commitmentColumns = `id, student_id, kind, label, day_of_week, start_minutes, end_minutes, location, created_at`

// CommitmentRepository loads a student's external obligations (orchestra
// rehearsals, theory classes). Read-only: commitments are owned by the
// orchestra and theory modules, never written here.
type CommitmentRepository struct {
	db *sqlx.DB
}

// NewCommitmentRepository creates a new commitment repository.
func NewCommitmentRepository(db *sqlx.DB) *CommitmentRepository {
	return &CommitmentRepository{db: db}
}

// ListByStudentAndKind returns commitments of one kind for a student.
func (r *CommitmentRepository) ListByStudentAndKind(ctx context.Context, studentID string, kind models.CommitmentKind) ([]models.ExternalCommitment, error) {
	query := `SELECT ` + commitmentColumns + ` FROM student_commitments
		WHERE student_id = $1 AND kind = $2
		ORDER BY day_of_week, start_minutes`

	commitments := []models.ExternalCommitment{}
	if err := r.db.SelectContext(ctx, &commitments, query, studentID, string(kind)); err != nil {
		return nil, err
	}
	return commitments, nil
}

// ListByStudent returns every commitment a student holds.
func (r *CommitmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.ExternalCommitment, error) {
	query := `SELECT ` + commitmentColumns + ` FROM student_commitments
		WHERE student_id = $1
		ORDER BY day_of_week, start_minutes`

	commitments := []models.ExternalCommitment{}
	if err := r.db.SelectContext(ctx, &commitments, query, studentID); err != nil {
		return nil, err
	}
	return commitments, nil
}

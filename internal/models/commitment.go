package models

import "time"

// CommitmentKind tags the source of an external commitment.
type CommitmentKind string

const (
	CommitmentRehearsal CommitmentKind = "rehearsal"
	CommitmentTheory    CommitmentKind = "theory"
)

// ExternalCommitment is a read-only obligation a student has outside of
// individual lessons: an orchestra rehearsal or a theory class. It is
// supplied by the surrounding application and never written by the engine.
type ExternalCommitment struct {
	ID           string         `db:"id" json:"id"`
	StudentID    string         `db:"student_id" json:"studentId"`
	Kind         CommitmentKind `db:"kind" json:"kind"`
	Label        string         `db:"label" json:"label,omitempty"`
	Day          Weekday        `db:"day_of_week" json:"day"`
	StartMinutes int            `db:"start_minutes" json:"startMinutes"`
	EndMinutes   int            `db:"end_minutes" json:"endMinutes"`
	Location     string         `db:"location" json:"location,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
}

// Slot returns the commitment as a TimeSlot.
func (c ExternalCommitment) Slot() TimeSlot {
	return TimeSlot{
		ID:              c.ID,
		Day:             c.Day,
		StartMinutes:    c.StartMinutes,
		EndMinutes:      c.EndMinutes,
		DurationMinutes: c.EndMinutes - c.StartMinutes,
		Location:        c.Location,
		SubjectID:       c.StudentID,
	}
}

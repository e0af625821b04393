package models

// ConflictType classifies a collision between a proposed slot and an
// existing commitment.
type ConflictType string

const (
	ConflictTeacherDoubleBooked ConflictType = "teacher_double_booked"
	ConflictStudentDoubleBooked ConflictType = "student_double_booked"
	ConflictRoom                ConflictType = "room_conflict"
	ConflictRehearsal           ConflictType = "rehearsal_conflict"
	ConflictTheory              ConflictType = "theory_conflict"
)

// ConflictSeverity ranks how strongly a conflict should block a booking.
// Severity is fixed per type as a business policy: double-booking a person
// is non-negotiable, activity and room collisions are advisory.
type ConflictSeverity string

const (
	SeverityHigh   ConflictSeverity = "high"
	SeverityMedium ConflictSeverity = "medium"
	SeverityLow    ConflictSeverity = "low"
)

// Blocking reports whether the severity forbids committing a booking.
func (s ConflictSeverity) Blocking() bool {
	return s == SeverityHigh
}

// Conflict is one detected collision. A proposed slot colliding with N
// commitments yields N conflict records, never a deduplicated set.
type Conflict struct {
	Type            ConflictType     `json:"type"`
	Severity        ConflictSeverity `json:"severity"`
	ConflictingSlot TimeSlot         `json:"conflictingSlot"`
	Suggestions     []string         `json:"suggestions,omitempty"`
}

package engine

import (
	"github.com/cadenza-app/cadenza-api/internal/models"
)

// ConflictContext carries every commitment set a proposed slot is checked
// against. All sets are read-only snapshots supplied by the caller.
type ConflictContext struct {
	TeacherBookings []models.Booking
	StudentBookings []models.Booking
	Rehearsals      []models.ExternalCommitment
	TheoryLessons   []models.ExternalCommitment
	RoomBookings    []models.Booking
}

// remediation text is fixed per conflict type; suggestions are advisory
// free text, not modeled actions.
var conflictSuggestions = map[models.ConflictType][]string{
	models.ConflictTeacherDoubleBooked: {
		"choose a different time for this teacher",
		"ask the teacher to open an additional availability window",
	},
	models.ConflictStudentDoubleBooked: {
		"choose a time when the student has no other lesson",
	},
	models.ConflictRehearsal: {
		"schedule around the orchestra rehearsal",
		"confirm with the orchestra manager before overriding",
	},
	models.ConflictTheory: {
		"schedule around the theory class",
		"confirm with the theory teacher before overriding",
	},
	models.ConflictRoom: {
		"pick another room",
		"shift the lesson so the room frees up",
	},
}

// DetectConflicts classifies every collision between the proposed slot and
// the supplied commitments. The five checks run independently and a single
// proposal may produce several conflicts at once; each colliding slot yields
// its own record. Severities are fixed per type and never derived from
// overlap length: identity conflicts are blocking, activity and room
// conflicts are advisory and may be overridden by the caller. The engine
// only reports; it never rejects.
func DetectConflicts(proposed models.TimeSlot, ctx ConflictContext) ([]models.Conflict, error) {
	if err := validateSlot(proposed); err != nil {
		return nil, err
	}

	conflicts := make([]models.Conflict, 0)

	for _, booking := range ctx.TeacherBookings {
		if booking.TeacherID == proposed.OwnerID && Overlaps(proposed, booking.Slot()) {
			conflicts = append(conflicts, newConflict(models.ConflictTeacherDoubleBooked, models.SeverityHigh, booking.Slot()))
		}
	}
	for _, booking := range ctx.StudentBookings {
		if booking.StudentID == proposed.SubjectID && Overlaps(proposed, booking.Slot()) {
			conflicts = append(conflicts, newConflict(models.ConflictStudentDoubleBooked, models.SeverityHigh, booking.Slot()))
		}
	}
	for _, rehearsal := range ctx.Rehearsals {
		if Overlaps(proposed, rehearsal.Slot()) {
			conflicts = append(conflicts, newConflict(models.ConflictRehearsal, models.SeverityMedium, rehearsal.Slot()))
		}
	}
	for _, lesson := range ctx.TheoryLessons {
		if Overlaps(proposed, lesson.Slot()) {
			conflicts = append(conflicts, newConflict(models.ConflictTheory, models.SeverityMedium, lesson.Slot()))
		}
	}
	if proposed.Location != "" {
		for _, booking := range ctx.RoomBookings {
			if booking.Location == proposed.Location && Overlaps(proposed, booking.Slot()) {
				conflicts = append(conflicts, newConflict(models.ConflictRoom, models.SeverityLow, booking.Slot()))
			}
		}
	}

	return conflicts, nil
}

// HasBlocking reports whether any conflict carries a blocking severity.
func HasBlocking(conflicts []models.Conflict) bool {
	for _, conflict := range conflicts {
		if conflict.Severity.Blocking() {
			return true
		}
	}
	return false
}

func newConflict(kind models.ConflictType, severity models.ConflictSeverity, slot models.TimeSlot) models.Conflict {
	return models.Conflict{
		Type:            kind,
		Severity:        severity,
		ConflictingSlot: slot,
		Suggestions:     conflictSuggestions[kind],
	}
}

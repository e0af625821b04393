package models

import "time"

// LessonDurations is the fixed set of bookable lesson lengths in minutes.
var LessonDurations = []int{30, 45, 60}

// IsLessonDuration reports whether the duration belongs to the bookable set.
func IsLessonDuration(minutes int) bool {
	for _, d := range LessonDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// Booking is a committed lesson binding a teacher and a student to a slot.
// Bookings are immutable once created; the only lifecycle transition is
// cancellation (deletion).
type Booking struct {
	ID              string    `db:"id" json:"id"`
	TeacherID       string    `db:"teacher_id" json:"teacherId"`
	StudentID       string    `db:"student_id" json:"studentId"`
	Day             Weekday   `db:"day_of_week" json:"day"`
	StartMinutes    int       `db:"start_minutes" json:"startMinutes"`
	EndMinutes      int       `db:"end_minutes" json:"endMinutes"`
	DurationMinutes int       `db:"duration_minutes" json:"durationMinutes"`
	Location        string    `db:"location" json:"location,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// Slot returns the booking as a TimeSlot.
func (b Booking) Slot() TimeSlot {
	return TimeSlot{
		ID:              b.ID,
		Day:             b.Day,
		StartMinutes:    b.StartMinutes,
		EndMinutes:      b.EndMinutes,
		DurationMinutes: b.DurationMinutes,
		Location:        b.Location,
		OwnerID:         b.TeacherID,
		SubjectID:       b.StudentID,
	}
}

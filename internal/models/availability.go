package models

import "time"

// AvailabilityWindow is a teacher-declared open-for-booking time block.
// Bookings are carved out of windows by the surrounding application; the
// engine only reads them.
type AvailabilityWindow struct {
	ID           string    `db:"id" json:"id"`
	TeacherID    string    `db:"teacher_id" json:"teacherId"`
	Day          Weekday   `db:"day_of_week" json:"day"`
	StartMinutes int       `db:"start_minutes" json:"startMinutes"`
	EndMinutes   int       `db:"end_minutes" json:"endMinutes"`
	Location     string    `db:"location" json:"location,omitempty"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Slot returns the window as a TimeSlot.
func (w AvailabilityWindow) Slot() TimeSlot {
	return TimeSlot{
		ID:              w.ID,
		Day:             w.Day,
		StartMinutes:    w.StartMinutes,
		EndMinutes:      w.EndMinutes,
		DurationMinutes: w.EndMinutes - w.StartMinutes,
		Location:        w.Location,
		OwnerID:         w.TeacherID,
	}
}

// DurationMinutes returns the total open minutes of the window.
func (w AvailabilityWindow) DurationMinutes() int {
	return w.EndMinutes - w.StartMinutes
}

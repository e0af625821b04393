package models

// Weekday identifies a day of the week, 0 (Sunday) through 6 (Saturday).
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayNames = [...]string{"SUNDAY", "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY"}

// Valid reports whether the weekday is within 0-6.
func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return "UNKNOWN"
	}
	return weekdayNames[d]
}

// TimeSlot is the universal scheduling unit: a half-open interval
// [StartMinutes, EndMinutes) on a fixed weekday. Minutes are offsets
// from midnight.
type TimeSlot struct {
	ID              string  `json:"id,omitempty"`
	Day             Weekday `json:"day"`
	StartMinutes    int     `json:"startMinutes"`
	EndMinutes      int     `json:"endMinutes"`
	DurationMinutes int     `json:"durationMinutes"`
	Location        string  `json:"location,omitempty"`
	OwnerID         string  `json:"ownerId,omitempty"`
	SubjectID       string  `json:"subjectId,omitempty"`
}

// Slot implements the Commitment interface.
func (t TimeSlot) Slot() TimeSlot {
	return t
}

// Commitment is any committed obligation occupying a time slot, regardless
// of whether it is a lesson booking or an external activity.
type Commitment interface {
	Slot() TimeSlot
}

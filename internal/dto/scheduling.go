package dto

import (
	"github.com/cadenza-app/cadenza-api/internal/engine"
	"github.com/cadenza-app/cadenza-api/internal/models"
)

// SlotPayload is the wire representation of a time slot. Times cross the
// boundary as "HH:MM" 24-hour strings, days as integers 0 (Sunday) through
// 6 (Saturday).
type SlotPayload struct {
	ID              string `json:"id,omitempty"`
	Day             int    `json:"day" validate:"min=0,max=6"`
	StartTime       string `json:"startTime" validate:"required"`
	EndTime         string `json:"endTime" validate:"required"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
	Location        string `json:"location,omitempty"`
	TeacherID       string `json:"teacherId,omitempty"`
	StudentID       string `json:"studentId,omitempty"`
}

// ToModel converts the payload into the engine's minute-offset form,
// rejecting malformed times at the boundary.
func (p SlotPayload) ToModel() (models.TimeSlot, error) {
	start, err := engine.ToMinutes(p.StartTime)
	if err != nil {
		return models.TimeSlot{}, err
	}
	end, err := engine.ToMinutes(p.EndTime)
	if err != nil {
		return models.TimeSlot{}, err
	}
	return models.TimeSlot{
		ID:              p.ID,
		Day:             models.Weekday(p.Day),
		StartMinutes:    start,
		EndMinutes:      end,
		DurationMinutes: end - start,
		Location:        p.Location,
		OwnerID:         p.TeacherID,
		SubjectID:       p.StudentID,
	}, nil
}

// NewSlotPayload renders a model slot back to wire form. Slots held by the
// engine are always valid, so formatting cannot fail.
func NewSlotPayload(slot models.TimeSlot) SlotPayload {
	start, _ := engine.ToTimeString(slot.StartMinutes)
	end, _ := engine.ToTimeString(slot.EndMinutes)
	return SlotPayload{
		ID:              slot.ID,
		Day:             int(slot.Day),
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: slot.DurationMinutes,
		Location:        slot.Location,
		TeacherID:       slot.OwnerID,
		StudentID:       slot.SubjectID,
	}
}

// NewSlotPayloads maps a slice of model slots to wire form.
func NewSlotPayloads(slots []models.TimeSlot) []SlotPayload {
	payloads := make([]SlotPayload, 0, len(slots))
	for _, slot := range slots {
		payloads = append(payloads, NewSlotPayload(slot))
	}
	return payloads
}

// GenerateSlotsRequest asks for candidate slots across a teacher's active
// availability windows.
type GenerateSlotsRequest struct {
	TeacherID string `json:"teacherId" validate:"required"`
	Day       *int   `json:"day,omitempty" validate:"omitempty,min=0,max=6"`
	Durations []int  `json:"durations,omitempty"`
	StepMins  int    `json:"stepMinutes,omitempty" validate:"omitempty,min=1"`
}

// GenerateSlotsResponse carries surviving candidates plus per-duration
// failures for durations that could not be processed.
type GenerateSlotsResponse struct {
	TeacherID string                   `json:"teacherId"`
	Slots     []SlotPayload            `json:"slots"`
	Failures  []engine.DurationFailure `json:"failures,omitempty"`
}

// DetectConflictsRequest checks a proposed slot against every commitment
// the teacher and student hold.
type DetectConflictsRequest struct {
	Proposed SlotPayload `json:"proposed" validate:"required"`
}

// ConflictPayload is the wire form of a detected conflict.
type ConflictPayload struct {
	Type            string      `json:"type"`
	Severity        string      `json:"severity"`
	ConflictingSlot SlotPayload `json:"conflictingSlot"`
	Suggestions     []string    `json:"suggestions,omitempty"`
}

// NewConflictPayloads maps model conflicts to wire form.
func NewConflictPayloads(conflicts []models.Conflict) []ConflictPayload {
	payloads := make([]ConflictPayload, 0, len(conflicts))
	for _, conflict := range conflicts {
		payloads = append(payloads, ConflictPayload{
			Type:            string(conflict.Type),
			Severity:        string(conflict.Severity),
			ConflictingSlot: NewSlotPayload(conflict.ConflictingSlot),
			Suggestions:     conflict.Suggestions,
		})
	}
	return payloads
}

// DetectConflictsResponse reports every collision; blocking is true when
// any conflict is severe enough to forbid booking.
type DetectConflictsResponse struct {
	Conflicts []ConflictPayload `json:"conflicts"`
	Blocking  bool              `json:"blocking"`
}

// SuggestAlternativesRequest asks for replacement slots after a proposal
// failed conflict detection.
type SuggestAlternativesRequest struct {
	Failed     SlotPayload `json:"failed" validate:"required"`
	MaxResults int         `json:"maxResults,omitempty" validate:"omitempty,min=1,max=20"`
}

// PackRequest asks for a maximally dense tiling of one window.
type PackRequest struct {
	WindowID        string `json:"windowId" validate:"required"`
	TeacherID       string `json:"teacherId" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=1"`
}

// FindOptimalSlotsRequest asks for the best candidate slots for a
// teacher-student pairing.
type FindOptimalSlotsRequest struct {
	TeacherID           string   `json:"teacherId" validate:"required"`
	StudentID           string   `json:"studentId" validate:"required"`
	DurationMinutes     int      `json:"durationMinutes" validate:"required,min=1"`
	PreferredStartTimes []string `json:"preferredStartTimes,omitempty"`
	BufferMinutes       *int     `json:"bufferMinutes,omitempty" validate:"omitempty,min=0"`
	MaxResults          int      `json:"maxResults,omitempty" validate:"omitempty,min=1,max=20"`
}

// CreateBookingRequest commits a lesson. AllowOverride permits booking over
// advisory (medium/low) conflicts; blocking conflicts always reject.
type CreateBookingRequest struct {
	TeacherID       string `json:"teacherId" validate:"required"`
	StudentID       string `json:"studentId" validate:"required"`
	Day             int    `json:"day" validate:"min=0,max=6"`
	StartTime       string `json:"startTime" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,oneof=30 45 60"`
	Location        string `json:"location,omitempty"`
	AllowOverride   bool   `json:"allowOverride,omitempty"`
}

// CreateBookingResponse returns the committed booking and any advisory
// conflicts that were overridden.
type CreateBookingResponse struct {
	Booking    *models.Booking   `json:"booking"`
	Overridden []ConflictPayload `json:"overriddenConflicts,omitempty"`
}

package engine

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/cadenza-app/cadenza-api/internal/models"
	appErrors "github.com/cadenza-app/cadenza-api/pkg/errors"
)

// DefaultSampleStepMinutes is the candidate sampling granularity. Sliding in
// 15-minute steps deliberately over-generates: candidates need not align to
// window boundaries, which maximises placement flexibility for callers.
const DefaultSampleStepMinutes = 15

// DurationFailure records a single duration of a batch that failed
// validation. Other durations in the same call are unaffected.
type DurationFailure struct {
	DurationMinutes int    `json:"durationMinutes"`
	Reason          string `json:"reason"`
}

// SlotGeneration is the outcome of one GenerateSlots call.
type SlotGeneration struct {
	Slots    []models.TimeSlot `json:"slots"`
	Failures []DurationFailure `json:"failures,omitempty"`
}

// GenerateSlots produces every legal candidate slot of the allowed durations
// inside the window, excluding candidates that overlap an existing booking
// of the window's teacher on the same day. Callers must pass only active
// windows. Generation is idempotent: identical inputs yield the identical
// ordered candidate set, and candidate IDs derive deterministically from
// (windowID, duration, start).
func GenerateSlots(window models.AvailabilityWindow, existing []models.Booking, allowedDurations []int, stepMinutes int) (SlotGeneration, error) {
	if err := validateSlot(window.Slot()); err != nil {
		return SlotGeneration{}, err
	}
	if stepMinutes <= 0 {
		stepMinutes = DefaultSampleStepMinutes
	}

	result := SlotGeneration{Slots: make([]models.TimeSlot, 0)}
	for _, duration := range allowedDurations {
		if duration <= 0 {
			result.Failures = append(result.Failures, DurationFailure{
				DurationMinutes: duration,
				Reason:          fmt.Sprintf("duration %d must be positive", duration),
			})
			continue
		}
		for start := window.StartMinutes; start+duration <= window.EndMinutes; start += stepMinutes {
			candidate := models.TimeSlot{
				ID:              candidateID(window.ID, duration, start),
				Day:             window.Day,
				StartMinutes:    start,
				EndMinutes:      start + duration,
				DurationMinutes: duration,
				Location:        window.Location,
				OwnerID:         window.TeacherID,
			}
			if collides(candidate, existing) {
				continue
			}
			result.Slots = append(result.Slots, candidate)
		}
	}

	sort.SliceStable(result.Slots, func(i, j int) bool {
		if result.Slots[i].StartMinutes == result.Slots[j].StartMinutes {
			return result.Slots[i].DurationMinutes < result.Slots[j].DurationMinutes
		}
		return result.Slots[i].StartMinutes < result.Slots[j].StartMinutes
	})
	return result, nil
}

// collides reports whether the candidate overlaps any booking held by the
// same teacher on the same day.
func collides(candidate models.TimeSlot, existing []models.Booking) bool {
	for _, booking := range existing {
		if booking.TeacherID != candidate.OwnerID {
			continue
		}
		if Overlaps(candidate, booking.Slot()) {
			return true
		}
	}
	return false
}

func candidateID(windowID string, duration, start int) string {
	seed := fmt.Sprintf("%s:%d:%d", windowID, duration, start)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}

// EmptyAvailability returns the error mandated when an operation requires
// at least one window and none were supplied.
func EmptyAvailability(teacherID string) error {
	return appErrors.Clone(appErrors.ErrEmptyAvailability, fmt.Sprintf("teacher %s has no active availability windows", teacherID))
}

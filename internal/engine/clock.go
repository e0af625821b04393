// Package engine implements the availability and conflict engine: slot
// generation, conflict detection, optimization suggestions, and efficiency
// analysis over snapshots of a teacher's schedule.
//
// Every function here is a pure computation over its arguments. Nothing is
// cached and no reference is retained between calls, so all entry points are
// safe for concurrent use. Correctness across the read-detect-commit gap is
// the caller's responsibility: conflict results reflect the supplied
// snapshot only, and the commit path must serialize per teacher.
package engine

import (
	"fmt"
	"regexp"

	"github.com/cadenza-app/cadenza-api/internal/models"
	appErrors "github.com/cadenza-app/cadenza-api/pkg/errors"
)

// minutesPerDay bounds every minute offset. Starts live in [0, 1439]; ends
// may reach 1440 because intervals are half-open, so a slot ending exactly
// at midnight is legal and renders as "24:00".
const minutesPerDay = 24 * 60

var timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ToMinutes converts an "HH:MM" 24-hour string to a minute-of-day offset.
// "24:00" is accepted as the end-of-day boundary and maps to 1440.
func ToMinutes(value string) (int, error) {
	if !timePattern.MatchString(value) {
		return 0, appErrors.Clone(appErrors.ErrMalformedTime, fmt.Sprintf("time %q must match HH:MM", value))
	}
	hours := int(value[0]-'0')*10 + int(value[1]-'0')
	minutes := int(value[3]-'0')*10 + int(value[4]-'0')
	total := hours*60 + minutes
	if minutes > 59 || total > minutesPerDay {
		return 0, appErrors.Clone(appErrors.ErrMalformedTime, fmt.Sprintf("time %q is outside the 24-hour clock", value))
	}
	return total, nil
}

// ToTimeString converts a minute-of-day offset back to "HH:MM". It is the
// total inverse of ToMinutes over valid inputs; 1440 renders as "24:00".
func ToTimeString(minutes int) (string, error) {
	if minutes < 0 || minutes > minutesPerDay {
		return "", appErrors.Clone(appErrors.ErrInvalidMinute, fmt.Sprintf("minute offset %d outside [0,1440]", minutes))
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
}

// AddMinutes shifts an "HH:MM" time forward by duration minutes. Results
// crossing midnight are invalid, never wrapped.
func AddMinutes(value string, duration int) (string, error) {
	start, err := ToMinutes(value)
	if err != nil {
		return "", err
	}
	if duration <= 0 {
		return "", appErrors.Clone(appErrors.ErrInvalidDuration, fmt.Sprintf("duration %d must be positive", duration))
	}
	end := start + duration
	if end > minutesPerDay {
		return "", appErrors.Clone(appErrors.ErrInvalidDuration, fmt.Sprintf("%s + %d minutes crosses midnight", value, duration))
	}
	return ToTimeString(end)
}

// Overlaps reports whether two slots share any time on the same day.
// Intervals are half-open: touching slots (a.End == b.Start) do not overlap.
func Overlaps(a, b models.TimeSlot) bool {
	if a.Day != b.Day {
		return false
	}
	return a.StartMinutes < b.EndMinutes && b.StartMinutes < a.EndMinutes
}

// Touches reports whether two same-day slots are exactly adjacent.
func Touches(a, b models.TimeSlot) bool {
	if a.Day != b.Day {
		return false
	}
	return a.EndMinutes == b.StartMinutes || b.EndMinutes == a.StartMinutes
}

// validateSlot rejects malformed slots before any interval arithmetic runs.
func validateSlot(slot models.TimeSlot) error {
	if !slot.Day.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("day %d outside 0 (Sunday) to 6 (Saturday)", slot.Day))
	}
	if slot.StartMinutes < 0 || slot.EndMinutes > minutesPerDay || slot.StartMinutes >= slot.EndMinutes {
		return appErrors.Clone(appErrors.ErrInvalidMinute, fmt.Sprintf("slot [%d,%d) violates 0 <= start < end <= 1440", slot.StartMinutes, slot.EndMinutes))
	}
	if slot.DurationMinutes != 0 && slot.DurationMinutes != slot.EndMinutes-slot.StartMinutes {
		return appErrors.Clone(appErrors.ErrInvalidDuration, fmt.Sprintf("durationMinutes %d does not equal end-start %d", slot.DurationMinutes, slot.EndMinutes-slot.StartMinutes))
	}
	return nil
}

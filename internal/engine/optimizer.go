package engine

import (
	"fmt"
	"sort"

	"github.com/cadenza-app/cadenza-api/internal/models"
	appErrors "github.com/cadenza-app/cadenza-api/pkg/errors"
)

const (
	// DefaultMaxAlternatives caps SuggestAlternatives results.
	DefaultMaxAlternatives = 3
	// DefaultMaxOptimalResults caps FindOptimalSlots results.
	DefaultMaxOptimalResults = 5
	// DefaultOptimalBufferMinutes separates consecutive generated
	// candidates within one window.
	DefaultOptimalBufferMinutes = 15
)

// SuggestAlternatives proposes replacement slots for a failed proposal.
// Windows shorter than the failed slot's duration are skipped; for each
// remaining window a same-duration slot is re-anchored at the window start
// and rejected if it still collides with an existing booking. First fit
// wins: window iteration order is preserved and no further ranking applies.
func SuggestAlternatives(failed models.TimeSlot, availability []models.AvailabilityWindow, existing []models.Booking, maxResults int) ([]models.TimeSlot, error) {
	if err := validateSlot(failed); err != nil {
		return nil, err
	}
	if len(availability) == 0 {
		return nil, EmptyAvailability(failed.OwnerID)
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxAlternatives
	}

	duration := failed.EndMinutes - failed.StartMinutes
	alternatives := make([]models.TimeSlot, 0, maxResults)
	for _, window := range availability {
		if window.DurationMinutes() < duration {
			continue
		}
		candidate := models.TimeSlot{
			ID:              candidateID(window.ID, duration, window.StartMinutes),
			Day:             window.Day,
			StartMinutes:    window.StartMinutes,
			EndMinutes:      window.StartMinutes + duration,
			DurationMinutes: duration,
			Location:        window.Location,
			OwnerID:         window.TeacherID,
			SubjectID:       failed.SubjectID,
		}
		if collides(candidate, existing) {
			continue
		}
		alternatives = append(alternatives, candidate)
		if len(alternatives) == maxResults {
			break
		}
	}
	return alternatives, nil
}

// PackBackToBack greedily tiles the window with contiguous slots of the
// given duration, each starting exactly where the previous one ends. Any
// remainder shorter than one duration stays unscheduled; partial slots are
// never emitted.
func PackBackToBack(window models.AvailabilityWindow, duration int) ([]models.TimeSlot, error) {
	if err := validateSlot(window.Slot()); err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidDuration, fmt.Sprintf("duration %d must be positive", duration))
	}

	count := window.DurationMinutes() / duration
	slots := make([]models.TimeSlot, 0, count)
	for i := 0; i < count; i++ {
		start := window.StartMinutes + i*duration
		slots = append(slots, models.TimeSlot{
			ID:              candidateID(window.ID, duration, start),
			Day:             window.Day,
			StartMinutes:    start,
			EndMinutes:      start + duration,
			DurationMinutes: duration,
			Location:        window.Location,
			OwnerID:         window.TeacherID,
		})
	}
	return slots, nil
}

// FindOptimalSlots proposes up to maxResults candidate slots for a student,
// walking the teacher's windows in preference order. Windows whose start
// time matches one of preferredStartTimes are visited first; both groups
// keep ascending (day, start) order. Within a window, candidates advance by
// duration+buffer minutes; the buffer separates generated candidates only
// and is never applied against the supplied commitments.
func FindOptimalSlots(availability []models.AvailabilityWindow, commitments []models.Commitment, duration int, preferredStartTimes []string, bufferMinutes, maxResults int) ([]models.TimeSlot, error) {
	if duration <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidDuration, fmt.Sprintf("duration %d must be positive", duration))
	}
	if len(availability) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyAvailability, "no availability windows supplied")
	}
	if bufferMinutes < 0 {
		bufferMinutes = DefaultOptimalBufferMinutes
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxOptimalResults
	}

	preferred := make(map[int]bool, len(preferredStartTimes))
	for _, value := range preferredStartTimes {
		start, err := ToMinutes(value)
		if err != nil {
			return nil, err
		}
		preferred[start] = true
	}

	ordered := make([]models.AvailabilityWindow, len(availability))
	copy(ordered, availability)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := preferred[ordered[i].StartMinutes], preferred[ordered[j].StartMinutes]
		if pi != pj {
			return pi
		}
		if ordered[i].Day != ordered[j].Day {
			return ordered[i].Day < ordered[j].Day
		}
		return ordered[i].StartMinutes < ordered[j].StartMinutes
	})

	results := make([]models.TimeSlot, 0, maxResults)
	for _, window := range ordered {
		stride := duration + bufferMinutes
		for start := window.StartMinutes; start+duration <= window.EndMinutes; start += stride {
			candidate := models.TimeSlot{
				ID:              candidateID(window.ID, duration, start),
				Day:             window.Day,
				StartMinutes:    start,
				EndMinutes:      start + duration,
				DurationMinutes: duration,
				Location:        window.Location,
				OwnerID:         window.TeacherID,
			}
			if collidesCommitments(candidate, commitments) {
				continue
			}
			results = append(results, candidate)
			if len(results) == maxResults {
				return results, nil
			}
		}
	}
	return results, nil
}

func collidesCommitments(candidate models.TimeSlot, commitments []models.Commitment) bool {
	for _, commitment := range commitments {
		if Overlaps(candidate, commitment.Slot()) {
			return true
		}
	}
	return false
}

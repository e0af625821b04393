package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-app/cadenza-api/internal/models"
)

func TestGenerateSlotsExcludesBookedTime(t *testing.T) {
	// Teacher window Monday 15:00-16:30 with an existing 15:00-15:45 booking.
	window := windowAt("win-1", "teacher-1", models.Monday, 900, 990)
	existing := []models.Booking{bookingAt("teacher-1", "student-1", models.Monday, 900, 945)}

	result, err := GenerateSlots(window, existing, []int{45}, 15)
	require.NoError(t, err)

	starts := make([]int, 0, len(result.Slots))
	for _, slot := range result.Slots {
		starts = append(starts, slot.StartMinutes)
		assert.Equal(t, 45, slot.DurationMinutes)
		assert.Equal(t, "teacher-1", slot.OwnerID)
	}
	// 15:00, 15:15, and 15:30 all overlap the booking; only 15:45-16:30 fits.
	assert.Equal(t, []int{945}, starts)
}

func TestGenerateSlotsNoCollisionInvariant(t *testing.T) {
	window := windowAt("win-1", "teacher-1", models.Wednesday, 480, 720)
	existing := []models.Booking{
		bookingAt("teacher-1", "student-1", models.Wednesday, 510, 570),
		bookingAt("teacher-1", "student-2", models.Wednesday, 615, 660),
	}

	result, err := GenerateSlots(window, existing, []int{30, 45, 60}, 15)
	require.NoError(t, err)
	require.NotEmpty(t, result.Slots)

	for _, slot := range result.Slots {
		for _, booking := range existing {
			assert.False(t, Overlaps(slot, booking.Slot()),
				"slot %d-%d overlaps booking %d-%d", slot.StartMinutes, slot.EndMinutes, booking.StartMinutes, booking.EndMinutes)
		}
	}
}

func TestGenerateSlotsIdempotent(t *testing.T) {
	window := windowAt("win-1", "teacher-1", models.Friday, 600, 780)
	existing := []models.Booking{bookingAt("teacher-1", "student-1", models.Friday, 660, 705)}

	first, err := GenerateSlots(window, existing, []int{30, 45}, 15)
	require.NoError(t, err)
	second, err := GenerateSlots(window, existing, []int{30, 45}, 15)
	require.NoError(t, err)

	assert.Equal(t, first.Slots, second.Slots, "identical inputs must yield identical ordered output")
}

func TestGenerateSlotsDurationLongerThanWindow(t *testing.T) {
	window := windowAt("win-1", "teacher-1", models.Monday, 900, 930)

	result, err := GenerateSlots(window, nil, []int{45, 60}, 15)
	require.NoError(t, err)
	assert.Empty(t, result.Slots)
	assert.Empty(t, result.Failures)
}

func TestGenerateSlotsIsolatesInvalidDurations(t *testing.T) {
	window := windowAt("win-1", "teacher-1", models.Monday, 540, 660)

	result, err := GenerateSlots(window, nil, []int{-10, 30, 0}, 15)
	require.NoError(t, err, "one invalid duration must not hide valid results")
	require.Len(t, result.Failures, 2)
	assert.Equal(t, -10, result.Failures[0].DurationMinutes)
	assert.Equal(t, 0, result.Failures[1].DurationMinutes)

	for _, slot := range result.Slots {
		assert.Equal(t, 30, slot.DurationMinutes)
	}
	assert.NotEmpty(t, result.Slots)
}

func TestGenerateSlotsIgnoresOtherTeachersBookings(t *testing.T) {
	window := windowAt("win-1", "teacher-1", models.Monday, 540, 600)
	existing := []models.Booking{bookingAt("teacher-2", "student-1", models.Monday, 540, 600)}

	result, err := GenerateSlots(window, existing, []int{60}, 15)
	require.NoError(t, err)
	require.Len(t, result.Slots, 1)
	assert.Equal(t, 540, result.Slots[0].StartMinutes)
}

func TestGenerateSlotsRejectsMalformedWindow(t *testing.T) {
	window := windowAt("win-1", "teacher-1", models.Monday, 600, 540)

	_, err := GenerateSlots(window, nil, []int{30}, 15)
	require.Error(t, err)
}

func TestGenerateSlotsDeterministicIDs(t *testing.T) {
	window := windowAt("win-1", "teacher-1", models.Tuesday, 540, 630)

	first, err := GenerateSlots(window, nil, []int{45}, 15)
	require.NoError(t, err)
	second, err := GenerateSlots(window, nil, []int{45}, 15)
	require.NoError(t, err)

	require.Equal(t, len(first.Slots), len(second.Slots))
	for i := range first.Slots {
		assert.Equal(t, first.Slots[i].ID, second.Slots[i].ID)
		assert.NotEmpty(t, first.Slots[i].ID)
	}
}

func windowAt(id, teacherID string, day models.Weekday, start, end int) models.AvailabilityWindow {
	return models.AvailabilityWindow{
		ID:           id,
		TeacherID:    teacherID,
		Day:          day,
		StartMinutes: start,
		EndMinutes:   end,
		IsActive:     true,
	}
}

func bookingAt(teacherID, studentID string, day models.Weekday, start, end int) models.Booking {
	return models.Booking{
		TeacherID:       teacherID,
		StudentID:       studentID,
		Day:             day,
		StartMinutes:    start,
		EndMinutes:      end,
		DurationMinutes: end - start,
	}
}

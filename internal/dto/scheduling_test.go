package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-app/cadenza-api/internal/engine"
	"github.com/cadenza-app/cadenza-api/internal/models"
)

func TestSlotPayloadRoundTrip(t *testing.T) {
	payload := SlotPayload{
		Day:       int(models.Wednesday),
		StartTime: "09:15",
		EndTime:   "10:00",
		TeacherID: "t1",
		StudentID: "s1",
	}

	slot, err := payload.ToModel()
	require.NoError(t, err)
	assert.Equal(t, 555, slot.StartMinutes)
	assert.Equal(t, 600, slot.EndMinutes)
	assert.Equal(t, 45, slot.DurationMinutes)

	back := NewSlotPayload(slot)
	assert.Equal(t, payload.StartTime, back.StartTime)
	assert.Equal(t, payload.EndTime, back.EndTime)
}

func TestSlotPayloadRejectsMalformedTime(t *testing.T) {
	_, err := SlotPayload{Day: 1, StartTime: "9:00", EndTime: "10:00"}.ToModel()
	require.Error(t, err)

	_, err = SlotPayload{Day: 1, StartTime: "09:00", EndTime: "25:00"}.ToModel()
	require.Error(t, err)
}

func TestSlotPayloadRendersMidnightEnd(t *testing.T) {
	window := models.AvailabilityWindow{
		ID:           "w1",
		TeacherID:    "t1",
		Day:          models.Friday,
		StartMinutes: 1380,
		EndMinutes:   1440,
		IsActive:     true,
	}

	generation, err := engine.GenerateSlots(window, nil, []int{60}, 15)
	require.NoError(t, err)
	require.Len(t, generation.Slots, 1)

	payload := NewSlotPayload(generation.Slots[0])
	assert.Equal(t, "23:00", payload.StartTime)
	assert.Equal(t, "24:00", payload.EndTime)
	assert.NotEmpty(t, payload.EndTime)
}

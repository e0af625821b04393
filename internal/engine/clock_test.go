package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-app/cadenza-api/internal/models"
	appErrors "github.com/cadenza-app/cadenza-api/pkg/errors"
)

func TestToMinutes(t *testing.T) {
	cases := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:05", 545, false},
		{"23:59", 1439, false},
		{"24:00", 1440, false},
		{"24:01", 0, true},
		{"12:60", 0, true},
		{"9:00", 0, true},
		{"09:0", 0, true},
		{"0900", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tc := range cases {
		got, err := ToMinutes(tc.input)
		if tc.wantErr {
			require.Error(t, err, "input %q", tc.input)
			appErr := appErrors.FromError(err)
			assert.Equal(t, appErrors.ErrMalformedTime.Code, appErr.Code, "input %q", tc.input)
			continue
		}
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestToTimeStringInvertsToMinutes(t *testing.T) {
	for minutes := 0; minutes < 1440; minutes += 7 {
		value, err := ToTimeString(minutes)
		require.NoError(t, err)
		back, err := ToMinutes(value)
		require.NoError(t, err)
		assert.Equal(t, minutes, back)
	}
}

func TestToTimeStringRejectsOutOfRange(t *testing.T) {
	for _, minutes := range []int{-1, 1441, 100000} {
		_, err := ToTimeString(minutes)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrInvalidMinute.Code, appErrors.FromError(err).Code)
	}
}

func TestMidnightEndBoundary(t *testing.T) {
	value, err := ToTimeString(1440)
	require.NoError(t, err)
	assert.Equal(t, "24:00", value)

	back, err := ToMinutes("24:00")
	require.NoError(t, err)
	assert.Equal(t, 1440, back)

	value, err = AddMinutes("23:00", 60)
	require.NoError(t, err)
	assert.Equal(t, "24:00", value)

	_, err = AddMinutes("23:01", 60)
	require.Error(t, err, "past midnight must be invalid, not wrapped")
}

func TestAddMinutes(t *testing.T) {
	value, err := AddMinutes("09:00", 45)
	require.NoError(t, err)
	assert.Equal(t, "09:45", value)

	_, err = AddMinutes("23:30", 45)
	require.Error(t, err, "crossing midnight must be invalid, not wrapped")
	assert.Equal(t, appErrors.ErrInvalidDuration.Code, appErrors.FromError(err).Code)

	_, err = AddMinutes("09:00", 0)
	require.Error(t, err)

	_, err = AddMinutes("9am", 30)
	require.Error(t, err)
}

func TestOverlapsSymmetry(t *testing.T) {
	a := slotAt(models.Monday, 540, 600)
	b := slotAt(models.Monday, 570, 630)
	c := slotAt(models.Tuesday, 570, 630)

	assert.True(t, Overlaps(a, b))
	assert.Equal(t, Overlaps(a, b), Overlaps(b, a))
	assert.False(t, Overlaps(a, c), "different days never overlap")
	assert.Equal(t, Overlaps(a, c), Overlaps(c, a))
}

func TestTouchingIsNotOverlapping(t *testing.T) {
	a := slotAt(models.Monday, 540, 600) // 09:00-10:00
	b := slotAt(models.Monday, 600, 660) // 10:00-11:00

	assert.False(t, Overlaps(a, b))
	assert.False(t, Overlaps(b, a))
	assert.True(t, Touches(a, b))
	assert.True(t, Touches(b, a))
}

func slotAt(day models.Weekday, start, end int) models.TimeSlot {
	return models.TimeSlot{
		Day:             day,
		StartMinutes:    start,
		EndMinutes:      end,
		DurationMinutes: end - start,
	}
}

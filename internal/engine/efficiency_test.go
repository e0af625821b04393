package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadenza-app/cadenza-api/internal/models"
)

func TestAnalyzeUtilization(t *testing.T) {
	availability := []models.AvailabilityWindow{
		windowAt("w1", "teacher-1", models.Monday, 540, 780), // 240 min
	}
	bookings := []models.Booking{
		bookingAt("teacher-1", "student-1", models.Monday, 540, 600), // 60 min
		bookingAt("teacher-1", "student-2", models.Monday, 600, 660), // 60 min
	}

	report := Analyze(bookings, availability)
	assert.InDelta(t, 50.0, report.UtilizationRate, 0.001)
	assert.InDelta(t, 100.0, report.BackToBackPercentage, 0.001)
}

func TestAnalyzeUtilizationBounds(t *testing.T) {
	// No availability never divides by zero.
	report := Analyze([]models.Booking{bookingAt("t", "s", models.Monday, 540, 600)}, nil)
	assert.Equal(t, 0.0, report.UtilizationRate)

	// Overbooked schedules clamp at 100.
	availability := []models.AvailabilityWindow{windowAt("w1", "t", models.Monday, 540, 570)}
	bookings := []models.Booking{
		bookingAt("t", "s1", models.Monday, 540, 600),
		bookingAt("t", "s2", models.Tuesday, 540, 600),
	}
	report = Analyze(bookings, availability)
	assert.LessOrEqual(t, report.UtilizationRate, 100.0)
	assert.GreaterOrEqual(t, report.UtilizationRate, 0.0)
}

func TestAnalyzeBackToBack(t *testing.T) {
	availability := []models.AvailabilityWindow{windowAt("w1", "t", models.Monday, 480, 900)}

	// Three bookings, one adjacent pair out of two: 50%.
	bookings := []models.Booking{
		bookingAt("t", "s1", models.Monday, 480, 540),
		bookingAt("t", "s2", models.Monday, 540, 600),
		bookingAt("t", "s3", models.Monday, 660, 720),
	}
	report := Analyze(bookings, availability)
	assert.InDelta(t, 50.0, report.BackToBackPercentage, 0.001)

	// Fewer than two bookings yields zero.
	report = Analyze(bookings[:1], availability)
	assert.Equal(t, 0.0, report.BackToBackPercentage)
	report = Analyze(nil, availability)
	assert.Equal(t, 0.0, report.BackToBackPercentage)
}

func TestAnalyzeBackToBackIgnoresDayBoundaries(t *testing.T) {
	availability := []models.AvailabilityWindow{windowAt("w1", "t", models.Monday, 480, 900)}
	bookings := []models.Booking{
		bookingAt("t", "s1", models.Monday, 840, 900),
		bookingAt("t", "s2", models.Tuesday, 900, 960), // not adjacent to Monday 14:00-15:00
	}
	report := Analyze(bookings, availability)
	assert.Equal(t, 0.0, report.BackToBackPercentage)
}

func TestAnalyzePeakHours(t *testing.T) {
	availability := []models.AvailabilityWindow{windowAt("w1", "t", models.Monday, 480, 1200)}
	bookings := []models.Booking{
		bookingAt("t", "s1", models.Monday, 900, 945),    // 15:00
		bookingAt("t", "s2", models.Tuesday, 915, 960),   // 15:15
		bookingAt("t", "s3", models.Wednesday, 930, 975), // 15:30
		bookingAt("t", "s4", models.Monday, 960, 1005),   // 16:00
		bookingAt("t", "s5", models.Tuesday, 975, 1020),  // 16:15
		bookingAt("t", "s6", models.Monday, 600, 645),    // 10:00
		bookingAt("t", "s7", models.Monday, 480, 510),    // 08:00
	}

	report := Analyze(bookings, availability)
	require.Len(t, report.PeakHours, 3)
	assert.Equal(t, "15:00", report.PeakHours[0])
	assert.Equal(t, "16:00", report.PeakHours[1])
	// 08:00 and 10:00 tie at one booking each; the stable tie-break keeps
	// first occurrence among bookings sorted by (day, start): 08:00 wins.
	assert.Equal(t, "08:00", report.PeakHours[2])
}

func TestAnalyzeRecommendations(t *testing.T) {
	availability := []models.AvailabilityWindow{windowAt("w1", "t", models.Monday, 480, 1200)} // 720 min

	// Low utilization, scattered lessons.
	sparse := []models.Booking{
		bookingAt("t", "s1", models.Monday, 480, 510),
		bookingAt("t", "s2", models.Monday, 600, 630),
	}
	report := Analyze(sparse, availability)
	require.Len(t, report.Recommendations, 2)

	// Saturated schedule.
	packed, err := PackBackToBack(windowAt("w1", "t", models.Monday, 480, 1200), 60)
	require.NoError(t, err)
	dense := make([]models.Booking, 0, len(packed))
	for _, slot := range packed {
		dense = append(dense, bookingAt("t", "s", slot.Day, slot.StartMinutes, slot.EndMinutes))
	}
	report = Analyze(dense, availability)
	require.Len(t, report.Recommendations, 1)
	assert.Contains(t, report.Recommendations[0], "saturated")
}

func TestAnalyzeEmptyInputs(t *testing.T) {
	report := Analyze(nil, nil)
	assert.Equal(t, 0.0, report.UtilizationRate)
	assert.Equal(t, 0.0, report.BackToBackPercentage)
	assert.Empty(t, report.PeakHours)
	assert.NotNil(t, report.PeakHours)
}

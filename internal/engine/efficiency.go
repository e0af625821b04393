package engine

import (
	"fmt"
	"sort"

	"github.com/cadenza-app/cadenza-api/internal/models"
)

// Recommendation thresholds are policy constants, not computed values.
const (
	lowUtilizationThreshold  = 60.0
	lowBackToBackThreshold   = 40.0
	highUtilizationThreshold = 90.0
	peakHourCount            = 3
)

// Analyze computes utilization, back-to-back density, and the peak-hour
// histogram for a teacher's committed schedule against declared
// availability. Peak hours rank by booking count; ties keep the order in
// which the hour first appears among bookings sorted by ascending
// (day, start).
func Analyze(bookings []models.Booking, availability []models.AvailabilityWindow) models.EfficiencyReport {
	report := models.EfficiencyReport{
		PeakHours:       []string{},
		Recommendations: []string{},
	}

	totalAvailable := 0
	for _, window := range availability {
		totalAvailable += window.DurationMinutes()
	}
	totalBooked := 0
	for _, booking := range bookings {
		totalBooked += booking.EndMinutes - booking.StartMinutes
	}
	if totalAvailable > 0 {
		report.UtilizationRate = float64(totalBooked) / float64(totalAvailable) * 100
		if report.UtilizationRate > 100 {
			report.UtilizationRate = 100
		}
	}

	sorted := make([]models.Booking, len(bookings))
	copy(sorted, bookings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Day != sorted[j].Day {
			return sorted[i].Day < sorted[j].Day
		}
		return sorted[i].StartMinutes < sorted[j].StartMinutes
	})

	if len(sorted) > 1 {
		adjacent := 0
		for i := 0; i < len(sorted)-1; i++ {
			if Touches(sorted[i].Slot(), sorted[i+1].Slot()) {
				adjacent++
			}
		}
		report.BackToBackPercentage = float64(adjacent) / float64(len(sorted)-1) * 100
	}

	report.PeakHours = peakHours(sorted)
	report.Recommendations = recommendations(report, len(sorted))
	return report
}

func peakHours(sorted []models.Booking) []string {
	counts := make(map[int]int)
	order := make([]int, 0)
	for _, booking := range sorted {
		hour := booking.StartMinutes / 60
		if counts[hour] == 0 {
			order = append(order, hour)
		}
		counts[hour]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	top := order
	if len(top) > peakHourCount {
		top = top[:peakHourCount]
	}
	labels := make([]string, 0, len(top))
	for _, hour := range top {
		labels = append(labels, fmt.Sprintf("%02d:00", hour))
	}
	return labels
}

func recommendations(report models.EfficiencyReport, bookingCount int) []string {
	hints := make([]string, 0, 3)
	if report.UtilizationRate < lowUtilizationThreshold {
		hints = append(hints, "utilization is low; open fewer windows or fill open time with more bookings")
	}
	if bookingCount > 1 && report.BackToBackPercentage < lowBackToBackThreshold {
		hints = append(hints, "lessons are scattered; consolidate bookings back-to-back to reduce idle gaps")
	}
	if report.UtilizationRate > highUtilizationThreshold {
		hints = append(hints, "schedule is nearly saturated; keep short breaks between lessons")
	}
	return hints
}

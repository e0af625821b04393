package models

// EfficiencyReport summarises how well a teacher's committed schedule uses
// the declared availability. Derived and read-only.
type EfficiencyReport struct {
	TeacherID            string   `json:"teacherId,omitempty"`
	UtilizationRate      float64  `json:"utilizationRate"`
	BackToBackPercentage float64  `json:"backToBackPercentage"`
	PeakHours            []string `json:"peakHours"`
	Recommendations      []string `json:"recommendations"`
}

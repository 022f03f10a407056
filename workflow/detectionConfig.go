package workflow

import "time"

// DetectionConfig carries every tunable threshold used by the location
// pipeline and the violation detector. Tests and deployments construct
// their own instead of mutating shared globals.
type DetectionConfig struct {
	// Location validation.
	MaxAccuracyMeters          float64
	MinPlausibleAccuracyMeters float64
	MaxPlausibleSpeedKmh       float64

	// Scheduled hours used when a site has none configured.
	DefaultWorkStart string
	DefaultWorkEnd   string

	// Attendance pass thresholds.
	LateThresholdMinutes       int
	EarlyLeaveThresholdMinutes int
	MinWorkHours               float64
	AttendanceLookback         time.Duration

	// Location pass thresholds.
	SpoofingAccuracyMeters float64
	AbnormalSpeedKmh       float64

	// Pattern pass thresholds.
	PatternLookbackDays int
	PatternMinRecords   int
	FrequentLateRate    float64
	MinAverageWorkHours float64

	// Dedup windows.
	PointDedupWindow   time.Duration
	PatternDedupWindow time.Duration
}

func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		MaxAccuracyMeters:          100,
		MinPlausibleAccuracyMeters: 1.0,
		MaxPlausibleSpeedKmh:       300,

		DefaultWorkStart: "09:00",
		DefaultWorkEnd:   "18:00",

		LateThresholdMinutes:       10,
		EarlyLeaveThresholdMinutes: 30,
		MinWorkHours:               4,
		AttendanceLookback:         24 * time.Hour,

		SpoofingAccuracyMeters: 1000,
		AbnormalSpeedKmh:       200,

		PatternLookbackDays: 7,
		PatternMinRecords:   3,
		FrequentLateRate:    0.5,
		MinAverageWorkHours: 3,

		PointDedupWindow:   5 * time.Minute,
		PatternDedupWindow: time.Hour,
	}
}

package workflow

import (
	"testing"
	"time"
)

func TestDetectMockLocation_ImplausibleAccuracy(t *testing.T) {
	cfg := DefaultDetectionConfig()
	sample := LocationSample{Latitude: 37.5665, Longitude: 126.9780, Accuracy: 0.5, RecordedAt: time.Now()}

	if !DetectMockLocation(cfg, sample, nil) {
		t.Fatal("sub-meter accuracy should be flagged")
	}
}

func TestDetectMockLocation_NormalSample(t *testing.T) {
	cfg := DefaultDetectionConfig()
	now := time.Now()
	prev := &LocationSample{Latitude: 37.5665, Longitude: 126.9780, Accuracy: 15, RecordedAt: now.Add(-time.Minute)}
	// ~111 m in one minute, well under any speed limit.
	cur := LocationSample{Latitude: 37.5675, Longitude: 126.9780, Accuracy: 15, RecordedAt: now}

	if DetectMockLocation(cfg, cur, prev) {
		t.Fatal("ordinary walking movement should not be flagged")
	}
}

func TestDetectMockLocation_ImpossibleSpeed(t *testing.T) {
	cfg := DefaultDetectionConfig()
	now := time.Now()
	// Seoul to Busan in 10 seconds.
	prev := &LocationSample{Latitude: 37.5665, Longitude: 126.9780, Accuracy: 15, RecordedAt: now.Add(-10 * time.Second)}
	cur := LocationSample{Latitude: 35.1796, Longitude: 129.0756, Accuracy: 15, RecordedAt: now}

	if !DetectMockLocation(cfg, cur, prev) {
		t.Fatal("teleportation should be flagged")
	}
}

func TestDetectMockLocation_ZeroElapsedNotEvaluated(t *testing.T) {
	cfg := DefaultDetectionConfig()
	now := time.Now()
	prev := &LocationSample{Latitude: 37.5665, Longitude: 126.9780, Accuracy: 15, RecordedAt: now}
	cur := LocationSample{Latitude: 35.1796, Longitude: 129.0756, Accuracy: 15, RecordedAt: now}

	// The speed rule only applies when time has passed.
	if DetectMockLocation(cfg, cur, prev) {
		t.Fatal("zero elapsed time must not trigger the speed rule")
	}
}

func TestDetectMockLocation_SpeedJustUnderLimit(t *testing.T) {
	cfg := DefaultDetectionConfig()
	now := time.Now()
	prev := &LocationSample{Latitude: 37.5665, Longitude: 126.9780, Accuracy: 15, RecordedAt: now.Add(-time.Hour)}
	// ~290 km in one hour.
	cur := LocationSample{Latitude: 37.5665 + 2.61, Longitude: 126.9780, Accuracy: 15, RecordedAt: now}

	if DetectMockLocation(cfg, cur, prev) {
		t.Fatal("290 km/h should pass under the 300 km/h limit")
	}
}

func TestValidateAccuracy(t *testing.T) {
	cfg := DefaultDetectionConfig()
	cases := []struct {
		accuracy float64
		want     bool
	}{
		{5, true},
		{100, true},
		{100.1, false},
		{150, false},
		{999, false},
	}
	for _, c := range cases {
		if got := ValidateAccuracy(cfg, c.accuracy); got != c.want {
			t.Fatalf("ValidateAccuracy(%f) = %v, want %v", c.accuracy, got, c.want)
		}
	}
}

package workflow

import "time"

// LocationSample is the minimal view of a GPS observation the
// heuristics need.
type LocationSample struct {
	Latitude   float64
	Longitude  float64
	Accuracy   float64
	RecordedAt time.Time
}

// DetectMockLocation flags a sample as suspicious when its accuracy is
// implausibly precise for consumer GPS, or when the movement implied by
// the previous sample would require impossible speed. The flag does not
// block processing; the violation detector consumes it later.
func DetectMockLocation(cfg DetectionConfig, current LocationSample, previous *LocationSample) bool {
	if current.Accuracy < cfg.MinPlausibleAccuracyMeters {
		return true
	}

	if previous != nil {
		elapsed := current.RecordedAt.Sub(previous.RecordedAt).Seconds()
		if elapsed > 0 {
			moved := Distance(previous.Latitude, previous.Longitude, current.Latitude, current.Longitude)
			maxPossible := (cfg.MaxPlausibleSpeedKmh * 1000 / 3600) * elapsed
			if moved > maxPossible {
				return true
			}
		}
	}

	return false
}

// ValidateAccuracy reports whether a sample's accuracy is good enough
// to trust for geofence resolution.
func ValidateAccuracy(cfg DetectionConfig, accuracy float64) bool {
	return accuracy <= cfg.MaxAccuracyMeters
}

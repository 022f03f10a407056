package config

import (
	"os"
	"strings"
)

// AllowAnySiteWhenUnassigned controls the geofence fallback for employees with
// no explicit site assignment. When enabled, such employees are resolved
// against every site in their company, which effectively lets them check in
// anywhere. Disabled by default.
//
// Set via env:
// - ALLOW_ANY_SITE_WHEN_UNASSIGNED=true
func AllowAnySiteWhenUnassigned() bool {
	return boolFromEnv("ALLOW_ANY_SITE_WHEN_UNASSIGNED")
}

// ViolationAlertsEnabled gates the Pub/Sub alert outbox. When disabled,
// detection still persists violations but no alert rows are enqueued.
//
// Set via env:
// - VIOLATION_ALERTS_ENABLED=true
func ViolationAlertsEnabled() bool {
	return boolFromEnv("VIOLATION_ALERTS_ENABLED")
}

func boolFromEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

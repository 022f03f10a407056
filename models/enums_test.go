package models

import "testing"

func TestViolationSeverityAlertable(t *testing.T) {
	cases := []struct {
		severity ViolationSeverity
		want     bool
	}{
		{ViolationSeverityLow, false},
		{ViolationSeverityMedium, false},
		{ViolationSeverityHigh, true},
		{ViolationSeverityCritical, true},
	}
	for _, c := range cases {
		if got := c.severity.Alertable(); got != c.want {
			t.Fatalf("%s.Alertable() = %v, want %v", c.severity, got, c.want)
		}
	}
}

package config

import "testing"

func TestAllowAnySiteWhenUnassigned_DefaultsOff(t *testing.T) {
	t.Setenv("ALLOW_ANY_SITE_WHEN_UNASSIGNED", "")
	if AllowAnySiteWhenUnassigned() {
		t.Fatal("flag should be off when unset")
	}
}

func TestAllowAnySiteWhenUnassigned_Enabled(t *testing.T) {
	for _, v := range []string{"true", "TRUE", "1", "yes"} {
		t.Setenv("ALLOW_ANY_SITE_WHEN_UNASSIGNED", v)
		if !AllowAnySiteWhenUnassigned() {
			t.Fatalf("flag should be on for %q", v)
		}
	}
}

func TestViolationAlertsEnabled(t *testing.T) {
	t.Setenv("VIOLATION_ALERTS_ENABLED", "")
	if ViolationAlertsEnabled() {
		t.Fatal("alerts should be off when unset")
	}
	t.Setenv("VIOLATION_ALERTS_ENABLED", "true")
	if !ViolationAlertsEnabled() {
		t.Fatal("alerts should be on when set")
	}
}

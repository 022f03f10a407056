package workflow

import (
	"testing"
	"time"

	"github.com/daycrew/attendance_backend/models"
)

func TestWorkMinutesBetween(t *testing.T) {
	cases := []struct {
		in, out time.Time
		want    int
	}{
		{timeAt(9, 0), timeAt(18, 0), 540},
		{timeAt(9, 0), timeAt(9, 0), 0},
		{timeAt(9, 0), timeAt(9, 30), 30},
		// Seconds truncate to whole minutes.
		{timeAt(9, 0), timeAt(9, 0).Add(90 * time.Second), 1},
	}
	for _, c := range cases {
		if got := workMinutesBetween(c.in, c.out); got != c.want {
			t.Fatalf("workMinutesBetween(%v,%v) = %d, want %d", c.in, c.out, got, c.want)
		}
	}
}

func TestWorkDate_TruncatesToDay(t *testing.T) {
	moment := time.Date(2026, 3, 2, 17, 45, 12, 0, time.Local)
	day := workDate(moment)
	if day.Hour() != 0 || day.Minute() != 0 || day.Second() != 0 {
		t.Fatalf("workDate not truncated: %v", day)
	}
	if day.Year() != 2026 || day.Month() != 3 || day.Day() != 2 {
		t.Fatalf("workDate wrong day: %v", day)
	}
	// Two moments on the same day map to the same work date.
	if !workDate(time.Date(2026, 3, 2, 0, 1, 0, 0, time.Local)).Equal(day) {
		t.Fatal("same-day moments should share one work date")
	}
}

func TestCheckOutTrailEvent_CopiesLastKnownPosition(t *testing.T) {
	employee := &models.Employee{ID: 42, CompanyId: "c-1"}
	siteId := 7
	distance := 12.5
	prior := &models.LocationEvent{
		EmployeeId:  42,
		SiteId:      &siteId,
		Latitude:    37.5665,
		Longitude:   126.9780,
		Accuracy:    8,
		Distance:    &distance,
		DeviceInfo:  "pixel-8",
		NetworkType: "wifi",
	}
	now := timeAt(18, 2)

	event := checkOutTrailEvent(employee, prior, now)
	if event.EventType != models.LocationEventTypeCheckOut {
		t.Fatalf("event type = %s, want check_out", event.EventType)
	}
	if event.Latitude != prior.Latitude || event.Longitude != prior.Longitude {
		t.Fatal("trail event should carry the prior coordinates")
	}
	if event.SiteId == nil || *event.SiteId != siteId {
		t.Fatal("trail event should carry the prior site")
	}
	if event.Distance == nil || *event.Distance != distance {
		t.Fatal("trail event should carry the prior distance")
	}
	if !event.RecordedAt.Equal(now) {
		t.Fatalf("recorded_at = %v, want check-out time %v", event.RecordedAt, now)
	}
	if event.CompanyId != employee.CompanyId || event.EmployeeId != employee.ID {
		t.Fatal("trail event should belong to the checking-out employee")
	}
}

package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/daycrew/attendance_backend/models"
)

func timeAt(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.Local)
}

func attendanceRecord(checkIn, checkOut *time.Time) *models.AttendanceRecord {
	return &models.AttendanceRecord{
		ID:           1,
		CompanyId:    "c-1",
		EmployeeId:   10,
		SiteId:       1,
		CheckInTime:  checkIn,
		CheckOutTime: checkOut,
	}
}

func scheduledSite(start, end string) *models.Site {
	return &models.Site{
		ID:                  1,
		Name:                "HQ",
		OperatingHoursStart: start,
		OperatingHoursEnd:   end,
	}
}

func findViolation(candidates []*models.NewViolation, vtype models.ViolationType) *models.NewViolation {
	for _, c := range candidates {
		if c.ViolationType == vtype {
			return c
		}
	}
	return nil
}

func TestAnalyzeAttendanceRecord_LateArrivalLow(t *testing.T) {
	cfg := DefaultDetectionConfig()
	checkIn := timeAt(9, 15)
	record := attendanceRecord(&checkIn, nil)

	candidates, markLate, _ := AnalyzeAttendanceRecord(cfg, record, scheduledSite("09:00", "18:00"))

	v := findViolation(candidates, models.ViolationTypeLateArrival)
	if v == nil {
		t.Fatal("15 minutes late should produce a late_arrival violation")
	}
	if v.Severity != models.ViolationSeverityLow {
		t.Fatalf("severity = %s, want low", v.Severity)
	}
	if !markLate {
		t.Fatal("record should be marked late")
	}
	if len(candidates) != 1 {
		t.Fatalf("got %d violations, want 1", len(candidates))
	}
}

func TestAnalyzeAttendanceRecord_LateUnderThresholdIgnored(t *testing.T) {
	cfg := DefaultDetectionConfig()
	checkIn := timeAt(9, 9)
	record := attendanceRecord(&checkIn, nil)

	candidates, markLate, _ := AnalyzeAttendanceRecord(cfg, record, scheduledSite("09:00", "18:00"))
	if len(candidates) != 0 || markLate {
		t.Fatalf("9 minutes late is under the threshold, got %d violations markLate=%v", len(candidates), markLate)
	}
}

func TestLateSeverityLadder(t *testing.T) {
	cases := []struct {
		minutes int
		want    models.ViolationSeverity
	}{
		{10, models.ViolationSeverityLow},
		{29, models.ViolationSeverityLow},
		{30, models.ViolationSeverityMedium},
		{59, models.ViolationSeverityMedium},
		{60, models.ViolationSeverityHigh},
		{180, models.ViolationSeverityHigh},
	}
	for _, c := range cases {
		if got := lateSeverity(c.minutes); got != c.want {
			t.Fatalf("lateSeverity(%d) = %s, want %s", c.minutes, got, c.want)
		}
	}
}

func TestEarlyLeaveSeverityLadder(t *testing.T) {
	cases := []struct {
		minutes int
		want    models.ViolationSeverity
	}{
		{30, models.ViolationSeverityLow},
		{59, models.ViolationSeverityLow},
		{60, models.ViolationSeverityMedium},
		{119, models.ViolationSeverityMedium},
		{120, models.ViolationSeverityHigh},
	}
	for _, c := range cases {
		if got := earlyLeaveSeverity(c.minutes); got != c.want {
			t.Fatalf("earlyLeaveSeverity(%d) = %s, want %s", c.minutes, got, c.want)
		}
	}
}

func TestAnalyzeAttendanceRecord_EarlyDeparture(t *testing.T) {
	cfg := DefaultDetectionConfig()
	checkIn := timeAt(9, 0)
	checkOut := timeAt(16, 30)
	record := attendanceRecord(&checkIn, &checkOut)

	candidates, _, markEarly := AnalyzeAttendanceRecord(cfg, record, scheduledSite("09:00", "18:00"))

	v := findViolation(candidates, models.ViolationTypeEarlyDeparture)
	if v == nil {
		t.Fatal("90 minutes early should produce an early_departure violation")
	}
	if v.Severity != models.ViolationSeverityMedium {
		t.Fatalf("severity = %s, want medium", v.Severity)
	}
	if !markEarly {
		t.Fatal("record should be marked early-leave")
	}
}

func TestAnalyzeAttendanceRecord_InsufficientHours(t *testing.T) {
	cfg := DefaultDetectionConfig()
	checkIn := timeAt(9, 0)
	checkOut := timeAt(12, 0)
	record := attendanceRecord(&checkIn, &checkOut)

	candidates, _, _ := AnalyzeAttendanceRecord(cfg, record, scheduledSite("09:00", "18:00"))

	v := findViolation(candidates, models.ViolationTypeInsufficientWorkHours)
	if v == nil {
		t.Fatal("3 hours worked should produce insufficient_work_hours")
	}
	if v.Severity != models.ViolationSeverityMedium {
		t.Fatalf("severity = %s, want medium", v.Severity)
	}
}

func TestAnalyzeAttendanceRecord_FullDayIsClean(t *testing.T) {
	cfg := DefaultDetectionConfig()
	checkIn := timeAt(8, 55)
	checkOut := timeAt(18, 5)
	record := attendanceRecord(&checkIn, &checkOut)

	candidates, markLate, markEarly := AnalyzeAttendanceRecord(cfg, record, scheduledSite("09:00", "18:00"))
	if len(candidates) != 0 || markLate || markEarly {
		t.Fatalf("clean full day produced %d violations", len(candidates))
	}
}

func TestClockDiffMinutes_MidnightWrap(t *testing.T) {
	cases := []struct {
		from, to, want int
	}{
		{9 * 60, 9*60 + 15, 15},
		{23 * 60, 1 * 60, 120},     // 23:00 -> 01:00 next day
		{22 * 60, 6 * 60, 8 * 60},  // night shift
		{0, 0, 0},
		{18 * 60, 9 * 60, 15 * 60}, // numerically earlier target wraps
	}
	for _, c := range cases {
		if got := clockDiffMinutes(c.from, c.to); got != c.want {
			t.Fatalf("clockDiffMinutes(%d,%d) = %d, want %d", c.from, c.to, got, c.want)
		}
	}
}

func TestAnalyzeAttendanceRecord_FallsBackToDefaultHours(t *testing.T) {
	cfg := DefaultDetectionConfig()
	checkIn := timeAt(9, 45)
	record := attendanceRecord(&checkIn, nil)

	// Malformed configured hours fall back to the 09:00 default.
	candidates, _, _ := AnalyzeAttendanceRecord(cfg, record, scheduledSite("garbage", ""))

	v := findViolation(candidates, models.ViolationTypeLateArrival)
	if v == nil {
		t.Fatal("45 minutes past the default start should flag late_arrival")
	}
	if v.Severity != models.ViolationSeverityMedium {
		t.Fatalf("severity = %s, want medium", v.Severity)
	}
}

func locationEvent(accuracy float64, isMock bool, speed *float64) *models.LocationEvent {
	return &models.LocationEvent{
		CompanyId:  "c-1",
		EmployeeId: 10,
		Accuracy:   accuracy,
		IsMock:     &isMock,
		Speed:      speed,
		RecordedAt: timeAt(10, 0),
	}
}

func TestAnalyzeLocationEvent_SpoofingAccuracy(t *testing.T) {
	cfg := DefaultDetectionConfig()
	candidates := AnalyzeLocationEvent(cfg, locationEvent(2000, false, nil))

	v := findViolation(candidates, models.ViolationTypeLocationSpoofing)
	if v == nil {
		t.Fatal("2000 m accuracy should flag location_spoofing")
	}
	if v.Severity != models.ViolationSeverityHigh {
		t.Fatalf("severity = %s, want high", v.Severity)
	}
}

func TestAnalyzeLocationEvent_MockIsCritical(t *testing.T) {
	cfg := DefaultDetectionConfig()
	candidates := AnalyzeLocationEvent(cfg, locationEvent(15, true, nil))

	v := findViolation(candidates, models.ViolationTypeMockLocationDetected)
	if v == nil {
		t.Fatal("mock flag should produce mock_location_detected")
	}
	if v.Severity != models.ViolationSeverityCritical {
		t.Fatalf("severity = %s, want critical", v.Severity)
	}
}

func TestAnalyzeLocationEvent_AbnormalSpeed(t *testing.T) {
	cfg := DefaultDetectionConfig()
	speed := 250.0
	candidates := AnalyzeLocationEvent(cfg, locationEvent(15, false, &speed))

	v := findViolation(candidates, models.ViolationTypeAbnormalSpeed)
	if v == nil {
		t.Fatal("250 km/h should flag abnormal_speed")
	}
	if v.Severity != models.ViolationSeverityMedium {
		t.Fatalf("severity = %s, want medium", v.Severity)
	}
}

func TestAnalyzeLocationEvent_CleanEvent(t *testing.T) {
	cfg := DefaultDetectionConfig()
	speed := 60.0
	if candidates := AnalyzeLocationEvent(cfg, locationEvent(15, false, &speed)); len(candidates) != 0 {
		t.Fatalf("clean event produced %d violations", len(candidates))
	}
}

func patternRecords(total, late int, workMinutes int) []*models.AttendanceRecord {
	records := make([]*models.AttendanceRecord, 0, total)
	for i := 0; i < total; i++ {
		isLate := i < late
		records = append(records, &models.AttendanceRecord{
			EmployeeId:       10,
			IsLate:           &isLate,
			TotalWorkMinutes: workMinutes,
		})
	}
	return records
}

func TestAnalyzeWorkPatterns_FrequentLateness(t *testing.T) {
	cfg := DefaultDetectionConfig()
	employee := &models.Employee{ID: 10, CompanyId: "c-1"}
	now := timeAt(12, 0)

	// 4 of 5 late (80%) triggers.
	candidates := AnalyzeWorkPatterns(cfg, employee, patternRecords(5, 4, 480), now)
	if findViolation(candidates, models.ViolationTypeFrequentLateness) == nil {
		t.Fatal("80% lateness should flag frequent_lateness")
	}

	// 2 of 5 late (40%) does not.
	candidates = AnalyzeWorkPatterns(cfg, employee, patternRecords(5, 2, 480), now)
	if findViolation(candidates, models.ViolationTypeFrequentLateness) != nil {
		t.Fatal("40% lateness should not flag frequent_lateness")
	}
}

func TestAnalyzeWorkPatterns_InsufficientAverageHours(t *testing.T) {
	cfg := DefaultDetectionConfig()
	employee := &models.Employee{ID: 10, CompanyId: "c-1"}
	now := timeAt(12, 0)

	// 2.5 hour average.
	candidates := AnalyzeWorkPatterns(cfg, employee, patternRecords(5, 0, 150), now)
	v := findViolation(candidates, models.ViolationTypeInsufficientAverageHours)
	if v == nil {
		t.Fatal("2.5 hour average should flag insufficient_average_hours")
	}
	if v.Severity != models.ViolationSeverityMedium {
		t.Fatalf("severity = %s, want medium", v.Severity)
	}

	// 8 hour average is fine.
	candidates = AnalyzeWorkPatterns(cfg, employee, patternRecords(5, 0, 480), now)
	if findViolation(candidates, models.ViolationTypeInsufficientAverageHours) != nil {
		t.Fatal("8 hour average should not flag insufficient_average_hours")
	}
}

func TestAnalyzeWorkPatterns_TimestampedAtDetection(t *testing.T) {
	cfg := DefaultDetectionConfig()
	employee := &models.Employee{ID: 10, CompanyId: "c-1"}
	now := timeAt(12, 0)

	candidates := AnalyzeWorkPatterns(cfg, employee, patternRecords(5, 5, 480), now)
	v := findViolation(candidates, models.ViolationTypeFrequentLateness)
	if v == nil {
		t.Fatal("expected frequent_lateness")
	}
	if !v.OccurredAt.Equal(now) {
		t.Fatalf("pattern violation occurred_at = %v, want detection time %v", v.OccurredAt, now)
	}
}

// memoryViolationSink backs the dedup loop with a slice so it runs
// without a database. Window matching mirrors the BETWEEN query.
type memoryViolationSink struct {
	violations []*models.Violation
	nextId     int
}

func (s *memoryViolationSink) CountInWindow(ctx context.Context, employeeId int, violationType models.ViolationType, from time.Time, to time.Time) (int64, error) {
	var count int64
	for _, v := range s.violations {
		if v.EmployeeId == employeeId && v.ViolationType == violationType &&
			!v.OccurredAt.Before(from) && !v.OccurredAt.After(to) {
			count++
		}
	}
	return count, nil
}

func (s *memoryViolationSink) Create(ctx context.Context, candidate *models.NewViolation) (*models.Violation, error) {
	s.nextId++
	violation := &models.Violation{
		ID:            s.nextId,
		CompanyId:     candidate.CompanyId,
		EmployeeId:    candidate.EmployeeId,
		ViolationType: candidate.ViolationType,
		Severity:      candidate.Severity,
		OccurredAt:    candidate.OccurredAt,
	}
	s.violations = append(s.violations, violation)
	return violation, nil
}

func TestDedup_SecondRunCreatesNothing(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultDetectionConfig()
	checkIn := timeAt(9, 15)
	record := attendanceRecord(&checkIn, nil)
	site := scheduledSite("09:00", "18:00")

	sink := &memoryViolationSink{}

	candidates, _, _ := AnalyzeAttendanceRecord(cfg, record, site)
	created, err := dedupViolations(ctx, sink, candidates, cfg.PointDedupWindow)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("first run created %d, want 1", len(created))
	}

	// Re-running over unchanged data yields identical candidates that
	// all fall inside the dedup window.
	candidates, _, _ = AnalyzeAttendanceRecord(cfg, record, site)
	created, err = dedupViolations(ctx, sink, candidates, cfg.PointDedupWindow)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(created) != 0 {
		t.Fatalf("second run created %d, want 0", len(created))
	}
}

func TestDedup_OutsideWindowCreatesAgain(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultDetectionConfig()
	sink := &memoryViolationSink{}

	first := &models.NewViolation{
		CompanyId:     "c-1",
		EmployeeId:    10,
		ViolationType: models.ViolationTypeLateArrival,
		Severity:      models.ViolationSeverityLow,
		OccurredAt:    timeAt(9, 15),
	}
	if _, err := dedupViolations(ctx, sink, []*models.NewViolation{first}, cfg.PointDedupWindow); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	// The next day's lateness is well outside the point window.
	second := &models.NewViolation{
		CompanyId:     "c-1",
		EmployeeId:    10,
		ViolationType: models.ViolationTypeLateArrival,
		Severity:      models.ViolationSeverityLow,
		OccurredAt:    timeAt(9, 15).AddDate(0, 0, 1),
	}
	created, err := dedupViolations(ctx, sink, []*models.NewViolation{second}, cfg.PointDedupWindow)
	if err != nil {
		t.Fatalf("second day failed: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("next-day candidate created %d, want 1", len(created))
	}
}

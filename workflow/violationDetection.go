package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/daycrew/attendance_backend/models"
	"github.com/daycrew/attendance_backend/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Detector runs the rule-based violation passes. Now is injectable so
// pattern violations, which are timestamped at detection time, stay
// deterministic under test.
type Detector struct {
	DB     *gorm.DB
	Logger *logrus.Logger
	Config DetectionConfig
	Now    func() time.Time
}

func NewDetector(db *gorm.DB, logger *logrus.Logger) *Detector {
	return &Detector{
		DB:     db,
		Logger: logger,
		Config: DefaultDetectionConfig(),
		Now:    time.Now,
	}
}

type DetectionResult struct {
	DetectedCount int                 `json:"detected_count"`
	Violations    []*models.Violation `json:"violations"`
}

type ComprehensiveResult struct {
	TotalDetected         int       `json:"total_detected"`
	AttendanceViolations  int       `json:"attendance_violations"`
	LocationViolations    int       `json:"location_violations"`
	PatternViolations     int       `json:"pattern_violations"`
	ProcessingTimeSeconds float64   `json:"processing_time_seconds"`
	DetectionTimestamp    time.Time `json:"detection_timestamp"`
}

// scheduledMinutes resolves a site's configured clock string, falling
// back to the detector default when missing or malformed.
func scheduledMinutes(configured string, fallback string) int {
	if m, ok := models.ClockMinutes(configured); ok {
		return m
	}
	m, _ := models.ClockMinutes(fallback)
	return m
}

// clockDiffMinutes measures from one wall-clock minute to another,
// wrapping into the next day when the destination is numerically
// earlier.
func clockDiffMinutes(fromMinutes int, toMinutes int) int {
	if toMinutes < fromMinutes {
		toMinutes += 24 * 60
	}
	return toMinutes - fromMinutes
}

func minutesOfDay(t time.Time) int {
	local := t.Local()
	return local.Hour()*60 + local.Minute()
}

func lateSeverity(lateMinutes int) models.ViolationSeverity {
	switch {
	case lateMinutes >= 60:
		return models.ViolationSeverityHigh
	case lateMinutes >= 30:
		return models.ViolationSeverityMedium
	default:
		return models.ViolationSeverityLow
	}
}

func earlyLeaveSeverity(earlyMinutes int) models.ViolationSeverity {
	switch {
	case earlyMinutes >= 120:
		return models.ViolationSeverityHigh
	case earlyMinutes >= 60:
		return models.ViolationSeverityMedium
	default:
		return models.ViolationSeverityLow
	}
}

func clockString(minutes int) string {
	minutes = minutes % (24 * 60)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

// AnalyzeAttendanceRecord evaluates one attendance record against its
// site's scheduled hours and returns the violations it implies. The
// returned flags report whether the record's lateness and early-leave
// markers should be set.
func AnalyzeAttendanceRecord(cfg DetectionConfig, record *models.AttendanceRecord, site *models.Site) (candidates []*models.NewViolation, markLate bool, markEarly bool) {
	if site == nil {
		return nil, false, false
	}

	scheduledStart := scheduledMinutes(site.OperatingHoursStart, cfg.DefaultWorkStart)
	scheduledEnd := scheduledMinutes(site.OperatingHoursEnd, cfg.DefaultWorkEnd)

	if record.CheckInTime != nil {
		actualStart := minutesOfDay(*record.CheckInTime)
		if actualStart > scheduledStart {
			lateMinutes := clockDiffMinutes(scheduledStart, actualStart)
			if lateMinutes >= cfg.LateThresholdMinutes {
				markLate = true
				candidates = append(candidates, &models.NewViolation{
					CompanyId:     record.CompanyId,
					EmployeeId:    record.EmployeeId,
					SiteId:        &record.SiteId,
					AttendanceId:  &record.ID,
					ViolationType: models.ViolationTypeLateArrival,
					Severity:      lateSeverity(lateMinutes),
					OccurredAt:    *record.CheckInTime,
					Description: fmt.Sprintf("Late arrival: %d minutes (scheduled %s, actual %s)",
						lateMinutes, clockString(scheduledStart), clockString(actualStart)),
					Evidence: mustJSON(map[string]interface{}{
						"scheduled_time": clockString(scheduledStart),
						"actual_time":    clockString(actualStart),
						"late_minutes":   lateMinutes,
					}),
				})
			}
		}
	}

	if record.CheckOutTime != nil {
		actualEnd := minutesOfDay(*record.CheckOutTime)
		if actualEnd < scheduledEnd {
			earlyMinutes := clockDiffMinutes(actualEnd, scheduledEnd)
			if earlyMinutes >= cfg.EarlyLeaveThresholdMinutes {
				markEarly = true
				candidates = append(candidates, &models.NewViolation{
					CompanyId:     record.CompanyId,
					EmployeeId:    record.EmployeeId,
					SiteId:        &record.SiteId,
					AttendanceId:  &record.ID,
					ViolationType: models.ViolationTypeEarlyDeparture,
					Severity:      earlyLeaveSeverity(earlyMinutes),
					OccurredAt:    *record.CheckOutTime,
					Description: fmt.Sprintf("Early departure: %d minutes (scheduled %s, actual %s)",
						earlyMinutes, clockString(scheduledEnd), clockString(actualEnd)),
					Evidence: mustJSON(map[string]interface{}{
						"scheduled_time": clockString(scheduledEnd),
						"actual_time":    clockString(actualEnd),
						"early_minutes":  earlyMinutes,
					}),
				})
			}
		}
	}

	if record.CheckInTime != nil && record.CheckOutTime != nil {
		workHours := record.CheckOutTime.Sub(*record.CheckInTime).Hours()
		if workHours < cfg.MinWorkHours {
			candidates = append(candidates, &models.NewViolation{
				CompanyId:     record.CompanyId,
				EmployeeId:    record.EmployeeId,
				SiteId:        &record.SiteId,
				AttendanceId:  &record.ID,
				ViolationType: models.ViolationTypeInsufficientWorkHours,
				Severity:      models.ViolationSeverityMedium,
				OccurredAt:    *record.CheckOutTime,
				Description:   fmt.Sprintf("Unusually short work day: %.1f hours", workHours),
				Evidence: mustJSON(map[string]interface{}{
					"work_hours": workHours,
				}),
			})
		}
	}

	return candidates, markLate, markEarly
}

// AnalyzeLocationEvent evaluates one location event for spoofing,
// mock-location and impossible-speed violations.
func AnalyzeLocationEvent(cfg DetectionConfig, event *models.LocationEvent) []*models.NewViolation {
	var candidates []*models.NewViolation

	if event.Accuracy > cfg.SpoofingAccuracyMeters {
		candidates = append(candidates, &models.NewViolation{
			CompanyId:     event.CompanyId,
			EmployeeId:    event.EmployeeId,
			SiteId:        event.SiteId,
			ViolationType: models.ViolationTypeLocationSpoofing,
			Severity:      models.ViolationSeverityHigh,
			OccurredAt:    event.RecordedAt,
			Description:   fmt.Sprintf("Abnormal GPS accuracy: %.0fm error", event.Accuracy),
			Evidence: mustJSON(map[string]interface{}{
				"accuracy":   event.Accuracy,
				"latitude":   event.Latitude,
				"longitude":  event.Longitude,
				"event_type": event.EventType,
			}),
		})
	}

	if event.IsMock != nil && *event.IsMock {
		candidates = append(candidates, &models.NewViolation{
			CompanyId:     event.CompanyId,
			EmployeeId:    event.EmployeeId,
			SiteId:        event.SiteId,
			ViolationType: models.ViolationTypeMockLocationDetected,
			Severity:      models.ViolationSeverityCritical,
			OccurredAt:    event.RecordedAt,
			Description:   "Mock location app detected",
			Evidence: mustJSON(map[string]interface{}{
				"latitude":    event.Latitude,
				"longitude":   event.Longitude,
				"device_info": event.DeviceInfo,
			}),
		})
	}

	if event.Speed != nil && *event.Speed > cfg.AbnormalSpeedKmh {
		candidates = append(candidates, &models.NewViolation{
			CompanyId:     event.CompanyId,
			EmployeeId:    event.EmployeeId,
			SiteId:        event.SiteId,
			ViolationType: models.ViolationTypeAbnormalSpeed,
			Severity:      models.ViolationSeverityMedium,
			OccurredAt:    event.RecordedAt,
			Description:   fmt.Sprintf("Abnormal movement speed: %.0fkm/h", *event.Speed),
			Evidence: mustJSON(map[string]interface{}{
				"speed":     *event.Speed,
				"latitude":  event.Latitude,
				"longitude": event.Longitude,
			}),
		})
	}

	return candidates
}

// AnalyzeWorkPatterns evaluates an employee's recent attendance history
// for behavioral violations. Records must already be filtered to the
// pattern window; callers skip employees with too few records.
func AnalyzeWorkPatterns(cfg DetectionConfig, employee *models.Employee, records []*models.AttendanceRecord, now time.Time) []*models.NewViolation {
	var candidates []*models.NewViolation
	if len(records) == 0 {
		return nil
	}

	lateCount := 0
	for _, r := range records {
		if r.IsLate != nil && *r.IsLate {
			lateCount++
		}
	}
	lateRate := float64(lateCount) / float64(len(records))
	if lateRate > cfg.FrequentLateRate {
		candidates = append(candidates, &models.NewViolation{
			CompanyId:     employee.CompanyId,
			EmployeeId:    employee.ID,
			ViolationType: models.ViolationTypeFrequentLateness,
			Severity:      models.ViolationSeverityMedium,
			OccurredAt:    now,
			Description: fmt.Sprintf("Frequent lateness: late %d of last %d days (%.0f%%)",
				lateCount, len(records), lateRate*100),
			Evidence: mustJSON(map[string]interface{}{
				"total_days": len(records),
				"late_days":  lateCount,
				"late_rate":  lateRate,
			}),
		})
	}

	var totalHours float64
	workDays := 0
	for _, r := range records {
		if r.TotalWorkMinutes > 0 {
			totalHours += float64(r.TotalWorkMinutes) / 60
			workDays++
		}
	}
	if workDays > 0 {
		avgHours := totalHours / float64(workDays)
		if avgHours < cfg.MinAverageWorkHours {
			candidates = append(candidates, &models.NewViolation{
				CompanyId:     employee.CompanyId,
				EmployeeId:    employee.ID,
				ViolationType: models.ViolationTypeInsufficientAverageHours,
				Severity:      models.ViolationSeverityMedium,
				OccurredAt:    now,
				Description:   fmt.Sprintf("Unusually short average work day: %.1f hours", avgHours),
				Evidence: mustJSON(map[string]interface{}{
					"average_hours": avgHours,
					"work_days":     workDays,
				}),
			})
		}
	}

	return candidates
}

// violationSink is the persistence surface the dedup loop writes
// through. The production implementation wraps the transaction; tests
// substitute an in-memory one.
type violationSink interface {
	CountInWindow(ctx context.Context, employeeId int, violationType models.ViolationType, from time.Time, to time.Time) (int64, error)
	Create(ctx context.Context, candidate *models.NewViolation) (*models.Violation, error)
}

type gormViolationSink struct {
	tx *gorm.DB
}

func (s gormViolationSink) CountInWindow(ctx context.Context, employeeId int, violationType models.ViolationType, from time.Time, to time.Time) (int64, error) {
	return models.CountViolationsInWindow(ctx, s.tx, employeeId, violationType, from, to)
}

func (s gormViolationSink) Create(ctx context.Context, candidate *models.NewViolation) (*models.Violation, error) {
	return models.CreateViolation(ctx, s.tx, candidate)
}

// dedupViolations writes only candidates with no same-type violation
// for the employee inside the dedup window, so re-running a pass over
// unchanged data creates nothing.
func dedupViolations(ctx context.Context, sink violationSink, candidates []*models.NewViolation, window time.Duration) ([]*models.Violation, error) {
	var created []*models.Violation
	for _, candidate := range candidates {
		count, err := sink.CountInWindow(ctx,
			candidate.EmployeeId, candidate.ViolationType,
			candidate.OccurredAt.Add(-window), candidate.OccurredAt.Add(window))
		if err != nil {
			return nil, err
		}
		if count > 0 {
			continue
		}
		violation, err := sink.Create(ctx, candidate)
		if err != nil {
			return nil, err
		}
		created = append(created, violation)
	}
	return created, nil
}

// persistCandidates runs the dedup loop in one transaction, enqueuing
// an alert for each violation actually created.
func (d *Detector) persistCandidates(ctx context.Context, candidates []*models.NewViolation, window time.Duration) ([]*models.Violation, error) {
	var created []*models.Violation
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)

	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = dedupViolations(ctx, gormViolationSink{tx: tx}, candidates, window)
		if err != nil {
			return err
		}
		for _, violation := range created {
			if err := models.EnqueueViolationAlert(ctx, tx, violation, correlationId); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DetectAttendanceViolations scans recent attendance records for
// lateness, early departures and short work days.
func (d *Detector) DetectAttendanceViolations(ctx context.Context, since *time.Time) (*DetectionResult, error) {
	now := d.Now()
	cutoff := now.Add(-d.Config.AttendanceLookback)
	if since != nil {
		cutoff = *since
	}

	var records []*models.AttendanceRecord
	if err := d.DB.WithContext(ctx).
		Where("check_in_time >= ?", cutoff).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	siteCache := map[int]*models.Site{}
	var candidates []*models.NewViolation
	for _, record := range records {
		site, ok := siteCache[record.SiteId]
		if !ok {
			s, err := models.GetSiteById(ctx, record.SiteId)
			if err != nil {
				continue
			}
			site = s
			siteCache[record.SiteId] = site
		}

		recordCandidates, markLate, markEarly := AnalyzeAttendanceRecord(d.Config, record, site)
		candidates = append(candidates, recordCandidates...)

		updates := map[string]interface{}{}
		if markLate && (record.IsLate == nil || !*record.IsLate) {
			updates["is_late"] = true
		}
		if markEarly && (record.IsEarlyLeave == nil || !*record.IsEarlyLeave) {
			updates["is_early_leave"] = true
		}
		if len(updates) > 0 {
			if err := d.DB.WithContext(ctx).Model(&models.AttendanceRecord{}).
				Where("id = ?", record.ID).Updates(updates).Error; err != nil {
				return nil, err
			}
		}
	}

	created, err := d.persistCandidates(ctx, candidates, d.Config.PointDedupWindow)
	if err != nil {
		return nil, err
	}
	return &DetectionResult{DetectedCount: len(created), Violations: created}, nil
}

// DetectLocationViolations scans recent location events for spoofing
// indicators.
func (d *Detector) DetectLocationViolations(ctx context.Context, since *time.Time) (*DetectionResult, error) {
	now := d.Now()
	cutoff := now.Add(-d.Config.AttendanceLookback)
	if since != nil {
		cutoff = *since
	}

	var events []*models.LocationEvent
	if err := d.DB.WithContext(ctx).
		Where("recorded_at >= ?", cutoff).
		Order("id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}

	var candidates []*models.NewViolation
	for _, event := range events {
		candidates = append(candidates, AnalyzeLocationEvent(d.Config, event)...)
	}

	created, err := d.persistCandidates(ctx, candidates, d.Config.PointDedupWindow)
	if err != nil {
		return nil, err
	}
	return &DetectionResult{DetectedCount: len(created), Violations: created}, nil
}

// DetectPatternViolations analyzes each employee's recent history for
// behavioral patterns. Employees with fewer than PatternMinRecords
// in-window records are skipped.
func (d *Detector) DetectPatternViolations(ctx context.Context, since *time.Time) (*DetectionResult, error) {
	now := d.Now()
	cutoff := now.AddDate(0, 0, -d.Config.PatternLookbackDays)
	if since != nil {
		cutoff = *since
	}

	var employees []*models.Employee
	if err := d.DB.WithContext(ctx).Order("id ASC").Find(&employees).Error; err != nil {
		return nil, err
	}

	var candidates []*models.NewViolation
	for _, employee := range employees {
		var records []*models.AttendanceRecord
		if err := d.DB.WithContext(ctx).
			Where("employee_id = ? AND check_in_time >= ?", employee.ID, cutoff).
			Order("id ASC").
			Find(&records).Error; err != nil {
			return nil, err
		}
		if len(records) < d.Config.PatternMinRecords {
			continue
		}
		candidates = append(candidates, AnalyzeWorkPatterns(d.Config, employee, records, now)...)
	}

	created, err := d.persistCandidates(ctx, candidates, d.Config.PatternDedupWindow)
	if err != nil {
		return nil, err
	}
	return &DetectionResult{DetectedCount: len(created), Violations: created}, nil
}

// RunComprehensiveDetection runs all three passes and aggregates their
// counts with elapsed processing time.
func (d *Detector) RunComprehensiveDetection(ctx context.Context) (*ComprehensiveResult, error) {
	start := d.Now()

	attendance, err := d.DetectAttendanceViolations(ctx, nil)
	if err != nil {
		return nil, err
	}
	location, err := d.DetectLocationViolations(ctx, nil)
	if err != nil {
		return nil, err
	}
	pattern, err := d.DetectPatternViolations(ctx, nil)
	if err != nil {
		return nil, err
	}

	result := &ComprehensiveResult{
		TotalDetected:         attendance.DetectedCount + location.DetectedCount + pattern.DetectedCount,
		AttendanceViolations:  attendance.DetectedCount,
		LocationViolations:    location.DetectedCount,
		PatternViolations:     pattern.DetectedCount,
		ProcessingTimeSeconds: time.Since(start).Seconds(),
		DetectionTimestamp:    start,
	}

	if d.Logger != nil {
		d.Logger.WithFields(logrus.Fields{
			"field":          "Detector",
			"total_detected": result.TotalDetected,
			"elapsed_sec":    result.ProcessingTimeSeconds,
		}).Info("comprehensive violation detection finished")
	}
	return result, nil
}

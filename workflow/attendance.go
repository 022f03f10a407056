package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/models"
	"github.com/daycrew/attendance_backend/utils"
	"gorm.io/gorm"
)

// AttendanceAction names what the state machine did with an event.
type AttendanceAction string

const (
	AttendanceActionCheckIn  AttendanceAction = "check_in"
	AttendanceActionCheckOut AttendanceAction = "check_out"
	AttendanceActionNone     AttendanceAction = "location_update"
)

// attendanceStore is the persistence surface the per-day state machine
// needs. The production implementation wraps the transaction; tests
// substitute an in-memory one.
type attendanceStore interface {
	GetForDay(ctx context.Context, employeeId int, workDate time.Time) (*models.AttendanceRecord, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
	Update(ctx context.Context, id int, updates map[string]interface{}) error
}

type gormAttendanceStore struct {
	tx *gorm.DB
}

func (s gormAttendanceStore) GetForDay(ctx context.Context, employeeId int, day time.Time) (*models.AttendanceRecord, error) {
	return models.GetAttendanceRecordForDay(ctx, s.tx, employeeId, day)
}

func (s gormAttendanceStore) Create(ctx context.Context, record *models.AttendanceRecord) error {
	return s.tx.WithContext(ctx).Create(record).Error
}

func (s gormAttendanceStore) Update(ctx context.Context, id int, updates map[string]interface{}) error {
	return s.tx.WithContext(ctx).Model(&models.AttendanceRecord{}).
		Where("id = ?", id).Updates(updates).Error
}

// workDate truncates a moment to its local calendar day.
func workDate(t time.Time) time.Time {
	year, month, day := t.Local().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func workMinutesBetween(checkIn time.Time, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn).Minutes())
}

// applyAttendanceTransition runs the per-day state machine for one
// classified event. Must run inside a transaction holding the
// employee's attendance lock.
//
// no-record -> checked_in on the first geofence enter of the day.
// checked_in -> completed on geofence exit. Everything else is a no-op,
// including re-entering the same site before checking out.
func applyAttendanceTransition(ctx context.Context, store attendanceStore, employee *models.Employee, eventType models.LocationEventType, geofence *GeofenceResult, now time.Time) (AttendanceAction, *models.AttendanceRecord, error) {
	today := workDate(now)
	record, err := store.GetForDay(ctx, employee.ID, today)
	if err != nil && err != utils.ErrorRecordNotFound {
		return AttendanceActionNone, nil, err
	}

	switch eventType {
	case models.LocationEventTypeGeofenceEnter:
		if !geofence.Inside || geofence.Site == nil {
			return AttendanceActionNone, record, nil
		}
		if record != nil {
			// Re-entry on an existing record never duplicates a check-in.
			return AttendanceActionNone, record, nil
		}
		site := geofence.Site
		record = &models.AttendanceRecord{
			CompanyId:       employee.CompanyId,
			EmployeeId:      employee.ID,
			SiteId:          site.ID,
			WorkDate:        today,
			ScheduledStart:  site.OperatingHoursStart,
			ScheduledEnd:    site.OperatingHoursEnd,
			CheckInTime:     &now,
			Status:          models.AttendanceStatusCheckedIn,
			IsLate:          utils.NewFalse(),
			IsEarlyLeave:    utils.NewFalse(),
			CheckInLocation: fmt.Sprintf("%s (%.1fm)", site.Name, geofence.Distance),
		}
		if err := store.Create(ctx, record); err != nil {
			return AttendanceActionNone, nil, err
		}
		return AttendanceActionCheckIn, record, nil

	case models.LocationEventTypeGeofenceExit:
		if record == nil || record.CheckOutTime != nil || record.CheckInTime == nil {
			return AttendanceActionNone, record, nil
		}
		return closeAttendanceRecord(ctx, store, record, now, "Exited from work area")
	}

	return AttendanceActionNone, record, nil
}

func closeAttendanceRecord(ctx context.Context, store attendanceStore, record *models.AttendanceRecord, now time.Time, location string) (AttendanceAction, *models.AttendanceRecord, error) {
	record.CheckOutTime = &now
	record.Status = models.AttendanceStatusCompleted
	record.CheckOutLocation = location
	record.TotalWorkMinutes = workMinutesBetween(*record.CheckInTime, now)

	if err := store.Update(ctx, record.ID, map[string]interface{}{
		"check_out_time":     record.CheckOutTime,
		"status":             record.Status,
		"check_out_location": record.CheckOutLocation,
		"total_work_minutes": record.TotalWorkMinutes,
	}); err != nil {
		return AttendanceActionNone, nil, err
	}
	return AttendanceActionCheckOut, record, nil
}

// ProcessCheckIn runs the location pipeline and requires the outcome
// to be a check-in. A sample outside every candidate site, or a day
// that already has a record, fails with a state error instead of
// silently logging an update.
func ProcessCheckIn(ctx context.Context, employeeId int, input *LocationUpdateInput) (*LocationUpdateResult, error) {
	result, err := ProcessLocationUpdate(ctx, employeeId, input)
	if err != nil {
		return nil, err
	}
	if result.AttendanceAction != AttendanceActionCheckIn {
		if result.IsMock {
			return nil, utils.NewValidationError("mock location detected; check-in rejected")
		}
		return nil, utils.NewStateError("check-in failed: not inside a work site or already checked in today")
	}
	return result, nil
}

// ProcessCheckOut closes today's open attendance record on an explicit
// request rather than a geofence exit. Fails with a state error when
// the employee has no open record to close.
func ProcessCheckOut(ctx context.Context, employeeId int) (*models.AttendanceRecord, error) {
	employee, err := models.GetEmployeeById(ctx, "", employeeId)
	if err != nil {
		return nil, err
	}

	redisLock := obtainRedisAttendanceLock(ctx, employee.ID)
	if redisLock != nil {
		defer func() { _ = redisLock.Release(ctx) }()
	}

	now := time.Now()
	var record *models.AttendanceRecord
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireEmployeeAttendanceLock(tx, employee.ID); err != nil {
			return err
		}
		defer ReleaseEmployeeAttendanceLock(tx, employee.ID)

		open, err := models.GetOpenAttendanceRecord(ctx, tx, employee.ID, workDate(now))
		if err != nil {
			return utils.NewStateError("no open attendance record for employee %d today", employee.ID)
		}
		if _, record, err = closeAttendanceRecord(ctx, gormAttendanceStore{tx: tx}, open, now, "Manual check-out"); err != nil {
			return err
		}

		// Log the check-out in the event trail at the last known
		// position. An employee with no events yet has no position to
		// log; any other lookup failure rolls the check-out back.
		prior, err := models.GetLastLocationEvent(ctx, tx, employee.ID)
		if err != nil {
			if err == utils.ErrorRecordNotFound {
				return nil
			}
			return err
		}
		_, err = models.CreateLocationEvent(ctx, tx, checkOutTrailEvent(employee, prior, now))
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// checkOutTrailEvent copies the employee's last known position into a
// check_out entry for the activity trail.
func checkOutTrailEvent(employee *models.Employee, prior *models.LocationEvent, now time.Time) *models.NewLocationEvent {
	return &models.NewLocationEvent{
		CompanyId:   employee.CompanyId,
		EmployeeId:  employee.ID,
		SiteId:      prior.SiteId,
		EventType:   models.LocationEventTypeCheckOut,
		Latitude:    prior.Latitude,
		Longitude:   prior.Longitude,
		Accuracy:    prior.Accuracy,
		Distance:    prior.Distance,
		DeviceInfo:  prior.DeviceInfo,
		NetworkType: prior.NetworkType,
		RecordedAt:  now,
	}
}

// CurrentStatus is the employee-facing snapshot of where they stand
// today.
type CurrentStatus struct {
	Status        string                   `json:"status"`
	Attendance    *models.AttendanceRecord `json:"attendance"`
	LastLocation  *models.LocationEvent    `json:"last_location"`
	AssignedSites []*models.Site           `json:"assigned_sites"`
}

// GetCurrentStatus reports waiting, working or completed for today.
func GetCurrentStatus(ctx context.Context, employeeId int) (*CurrentStatus, error) {
	employee, err := models.GetEmployeeById(ctx, "", employeeId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	status := &CurrentStatus{Status: "waiting"}

	record, err := models.GetAttendanceRecordForDay(ctx, db, employee.ID, workDate(time.Now()))
	if err == nil {
		status.Attendance = record
		if record.CheckOutTime != nil {
			status.Status = "completed"
		} else if record.CheckInTime != nil {
			status.Status = "working"
		}
	}

	if event, err := models.GetLastLocationEvent(ctx, db, employee.ID); err == nil {
		status.LastLocation = event
	}

	sites, err := models.AssignedSites(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	status.AssignedSites = sites
	return status, nil
}

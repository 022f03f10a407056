package workflow

import (
	"context"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/models"
	"github.com/daycrew/attendance_backend/utils"
	"gorm.io/gorm"
)

type LocationUpdateInput struct {
	Latitude    float64  `json:"latitude" binding:"required"`
	Longitude   float64  `json:"longitude" binding:"required"`
	Accuracy    *float64 `json:"accuracy"`
	Altitude    *float64 `json:"altitude"`
	Speed       *float64 `json:"speed"`
	DeviceInfo  string   `json:"device_info"`
	NetworkType string   `json:"network_type"`

	// Optional client-generated id. Retried submissions with the same
	// id are processed at most once.
	ClientMessageId string `json:"client_message_id"`
}

type LocationUpdateResult struct {
	EventType models.LocationEventType `json:"event_type"`
	SiteName  *string                  `json:"site_name"`

	// Distance to the nearest candidate site; nil when there were no
	// candidates to measure against.
	Distance         *float64         `json:"distance"`
	IsMock           bool             `json:"is_mock"`
	AttendanceAction AttendanceAction `json:"attendance_action"`
}

// ClassifyLocationEvent decides whether a resolved sample crosses a
// geofence boundary relative to the employee's prior event.
func ClassifyLocationEvent(result GeofenceResult, prior *models.LocationEvent) models.LocationEventType {
	if result.Inside && result.Site != nil {
		if prior == nil || prior.SiteId == nil || *prior.SiteId != result.Site.ID {
			return models.LocationEventTypeGeofenceEnter
		}
		return models.LocationEventTypeUpdate
	}
	if prior != nil && prior.SiteId != nil {
		return models.LocationEventTypeGeofenceExit
	}
	return models.LocationEventTypeUpdate
}

// ProcessLocationUpdate runs the full pipeline for one incoming sample:
// mock detection against the prior event, accuracy validation, geofence
// resolution, event classification, the append-only event write and the
// attendance transition. Everything persists in one transaction under
// the employee's attendance lock, so a failure leaves no partial state.
func ProcessLocationUpdate(ctx context.Context, employeeId int, input *LocationUpdateInput) (*LocationUpdateResult, error) {
	employee, err := models.GetEmployeeById(ctx, "", employeeId)
	if err != nil {
		return nil, err
	}
	if employee.GpsTrackingEnabled != nil && !*employee.GpsTrackingEnabled {
		return nil, utils.NewStateError("gps tracking disabled for employee %d", employeeId)
	}

	cfg := DefaultDetectionConfig()
	now := time.Now()

	// Unreported accuracy is treated as untrustworthy.
	accuracy := 999.0
	if input.Accuracy != nil {
		accuracy = *input.Accuracy
	}

	sites, err := candidateSites(ctx, employee)
	if err != nil {
		return nil, err
	}

	redisLock := obtainRedisAttendanceLock(ctx, employee.ID)
	if redisLock != nil {
		defer func() { _ = redisLock.Release(ctx) }()
	}

	var out *LocationUpdateResult
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireEmployeeAttendanceLock(tx, employee.ID); err != nil {
			return err
		}
		defer ReleaseEmployeeAttendanceLock(tx, employee.ID)

		if input.ClientMessageId != "" {
			skip, err := BeginIdempotency(tx, employee.CompanyId, "ProcessLocationUpdate", input.ClientMessageId)
			if err != nil {
				return err
			}
			if skip {
				out = &LocationUpdateResult{
					EventType:        models.LocationEventTypeUpdate,
					IsMock:           false,
					AttendanceAction: AttendanceActionNone,
				}
				return nil
			}
		}

		prior, err := models.GetLastLocationEvent(ctx, tx, employee.ID)
		if err != nil && err != utils.ErrorRecordNotFound {
			return err
		}

		var previous *LocationSample
		if prior != nil {
			previous = &LocationSample{
				Latitude:   prior.Latitude,
				Longitude:  prior.Longitude,
				Accuracy:   prior.Accuracy,
				RecordedAt: prior.RecordedAt,
			}
		}
		isMock := DetectMockLocation(cfg, LocationSample{
			Latitude:   input.Latitude,
			Longitude:  input.Longitude,
			Accuracy:   accuracy,
			RecordedAt: now,
		}, previous)

		if !ValidateAccuracy(cfg, accuracy) {
			return utils.NewValidationError("location accuracy too low: %.0fm", accuracy)
		}

		result := ResolveGeofence(input.Latitude, input.Longitude, sites)
		eventType := ClassifyLocationEvent(result, prior)

		var siteId *int
		if result.Site != nil {
			siteId = &result.Site.ID
		}
		networkType := input.NetworkType
		if networkType == "" {
			networkType = "unknown"
		}
		if _, err := models.CreateLocationEvent(ctx, tx, &models.NewLocationEvent{
			CompanyId:   employee.CompanyId,
			EmployeeId:  employee.ID,
			SiteId:      siteId,
			EventType:   eventType,
			Latitude:    input.Latitude,
			Longitude:   input.Longitude,
			Accuracy:    accuracy,
			Altitude:    input.Altitude,
			Speed:       input.Speed,
			Distance:    result.MinDistance,
			IsMock:      isMock,
			DeviceInfo:  input.DeviceInfo,
			NetworkType: networkType,
			RecordedAt:  now,
		}); err != nil {
			return err
		}

		action, _, err := applyAttendanceTransition(ctx, gormAttendanceStore{tx: tx}, employee, eventType, &result, now)
		if err != nil {
			return err
		}

		out = &LocationUpdateResult{
			EventType:        eventType,
			Distance:         result.MinDistance,
			IsMock:           isMock,
			AttendanceAction: action,
		}
		if result.Site != nil {
			name := result.Site.Name
			out.SiteName = &name
		}

		if input.ClientMessageId != "" {
			return MarkIdempotencySucceeded(tx, employee.CompanyId, "ProcessLocationUpdate", input.ClientMessageId)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

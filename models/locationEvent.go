package models

import (
	"context"
	"errors"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/utils"
	"gorm.io/gorm"
)

// LocationEvent is an append-only log of received location samples and
// the geofence transitions derived from them. Rows are never updated.
type LocationEvent struct {
	ID         int               `gorm:"primary_key" json:"id"`
	CompanyId  string            `gorm:"index;size:36;not null" json:"company_id"`
	EmployeeId int               `gorm:"index:idx_event_employee_time,priority:1;not null" json:"employee_id"`
	SiteId     *int              `gorm:"index" json:"site_id"`
	EventType  LocationEventType `gorm:"size:30;not null" json:"event_type"`
	Latitude   float64           `gorm:"not null" json:"latitude"`
	Longitude  float64           `gorm:"not null" json:"longitude"`
	Accuracy   float64           `json:"accuracy"`
	Altitude   *float64          `json:"altitude"`
	Speed      *float64          `json:"speed"`

	// Distance to the nearest candidate site; nil when the employee had
	// no candidate sites at the time of the event.
	Distance *float64 `json:"distance"`
	IsMock     *bool             `gorm:"not null;default:false" json:"is_mock"`
	DeviceInfo string            `gorm:"size:255" json:"device_info"`
	NetworkType string           `gorm:"size:20" json:"network_type"`
	RecordedAt time.Time         `gorm:"index:idx_event_employee_time,priority:2;not null" json:"recorded_at"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

type NewLocationEvent struct {
	CompanyId   string
	EmployeeId  int
	SiteId      *int
	EventType   LocationEventType
	Latitude    float64
	Longitude   float64
	Accuracy    float64
	Altitude    *float64
	Speed       *float64
	Distance    *float64
	IsMock      bool
	DeviceInfo  string
	NetworkType string
	RecordedAt  time.Time
}

func CreateLocationEvent(ctx context.Context, tx *gorm.DB, input *NewLocationEvent) (*LocationEvent, error) {
	isMock := input.IsMock
	event := LocationEvent{
		CompanyId:   input.CompanyId,
		EmployeeId:  input.EmployeeId,
		SiteId:      input.SiteId,
		EventType:   input.EventType,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Accuracy:    input.Accuracy,
		Altitude:    input.Altitude,
		Speed:       input.Speed,
		Distance:    input.Distance,
		IsMock:      &isMock,
		DeviceInfo:  input.DeviceInfo,
		NetworkType: input.NetworkType,
		RecordedAt:  input.RecordedAt.UTC(),
	}
	if err := tx.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// GetLastLocationEvent returns the most recent event for the employee.
// An employee with no events yet gets ErrorRecordNotFound; any other
// query failure is passed through so callers don't mistake a broken
// connection for an empty history.
func GetLastLocationEvent(ctx context.Context, tx *gorm.DB, employeeId int) (*LocationEvent, error) {
	var event LocationEvent
	if err := tx.WithContext(ctx).
		Where("employee_id = ?", employeeId).
		Order("recorded_at DESC, id DESC").
		Take(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &event, nil
}

func ListLocationEvents(ctx context.Context, employeeId int, from time.Time, to time.Time, limit int) ([]*LocationEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = config.SearchLimit
	}
	var events []*LocationEvent
	db := config.GetDB()
	query := db.WithContext(ctx).Where("employee_id = ?", employeeId)
	if !from.IsZero() {
		query = query.Where("recorded_at >= ?", from.UTC())
	}
	if !to.IsZero() {
		query = query.Where("recorded_at < ?", to.UTC())
	}
	if err := query.Order("recorded_at DESC, id DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// ListLocationEventsByType returns events of one type within a window,
// oldest first. Used by the pattern analysis pass.
func ListLocationEventsByType(ctx context.Context, employeeId int, eventType LocationEventType, from time.Time, to time.Time) ([]*LocationEvent, error) {
	var events []*LocationEvent
	db := config.GetDB()
	if err := db.WithContext(ctx).
		Where("employee_id = ? AND event_type = ?", employeeId, eventType).
		Where("recorded_at >= ? AND recorded_at < ?", from.UTC(), to.UTC()).
		Order("recorded_at ASC, id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

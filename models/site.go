package models

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/utils"
)

type Site struct {
	ID             int     `gorm:"primary_key" json:"id"`
	CompanyId      string  `gorm:"index;size:36;not null" json:"company_id"`
	Name           string  `gorm:"size:100;not null" json:"name" binding:"required"`
	Address        string  `gorm:"type:text" json:"address"`
	Latitude       float64 `gorm:"not null" json:"latitude"`
	Longitude      float64 `gorm:"not null" json:"longitude"`
	GeofenceRadius float64 `gorm:"not null;default:100" json:"geofence_radius"`

	// Operating hours in "HH:MM" wall-clock form.
	OperatingHoursStart string `gorm:"size:5;default:09:00" json:"operating_hours_start"`
	OperatingHoursEnd   string `gorm:"size:5;default:18:00" json:"operating_hours_end"`

	CheckInRequired   *bool `gorm:"not null;default:true" json:"check_in_required"`
	CheckOutRequired  *bool `gorm:"not null;default:true" json:"check_out_required"`
	BreakTimeTracking *bool `gorm:"not null;default:true" json:"break_time_tracking"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSite struct {
	Name                string  `json:"name" binding:"required"`
	Address             string  `json:"address"`
	Latitude            float64 `json:"latitude" binding:"required"`
	Longitude           float64 `json:"longitude" binding:"required"`
	GeofenceRadius      float64 `json:"geofence_radius"`
	OperatingHoursStart string  `json:"operating_hours_start"`
	OperatingHoursEnd   string  `json:"operating_hours_end"`
}

// ClockMinutes parses an "HH:MM" string into minutes after midnight.
// Returns ok=false for anything unparsable, letting callers fall back to
// their configured default.
func ClockMinutes(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

func (s *Site) OperatingStartMinutes() (int, bool) {
	return ClockMinutes(s.OperatingHoursStart)
}

func (s *Site) OperatingEndMinutes() (int, bool) {
	return ClockMinutes(s.OperatingHoursEnd)
}

func (input *NewSite) validate() error {
	if input.Latitude < -90 || input.Latitude > 90 {
		return utils.NewValidationError("latitude out of range: %f", input.Latitude)
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return utils.NewValidationError("longitude out of range: %f", input.Longitude)
	}
	if input.GeofenceRadius < 0 {
		return utils.NewValidationError("geofence radius must be positive")
	}
	if input.OperatingHoursStart != "" {
		if _, ok := ClockMinutes(input.OperatingHoursStart); !ok {
			return utils.NewValidationError("invalid operating_hours_start: %s", input.OperatingHoursStart)
		}
	}
	if input.OperatingHoursEnd != "" {
		if _, ok := ClockMinutes(input.OperatingHoursEnd); !ok {
			return utils.NewValidationError("invalid operating_hours_end: %s", input.OperatingHoursEnd)
		}
	}
	return nil
}

func CreateSite(ctx context.Context, companyId string, input *NewSite) (*Site, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	site := Site{
		CompanyId:           companyId,
		Name:                input.Name,
		Address:             input.Address,
		Latitude:            input.Latitude,
		Longitude:           input.Longitude,
		GeofenceRadius:      input.GeofenceRadius,
		OperatingHoursStart: input.OperatingHoursStart,
		OperatingHoursEnd:   input.OperatingHoursEnd,
		CheckInRequired:     utils.NewTrue(),
		CheckOutRequired:    utils.NewTrue(),
		BreakTimeTracking:   utils.NewTrue(),
	}
	if site.GeofenceRadius == 0 {
		site.GeofenceRadius = 100
	}
	if site.OperatingHoursStart == "" {
		site.OperatingHoursStart = "09:00"
	}
	if site.OperatingHoursEnd == "" {
		site.OperatingHoursEnd = "18:00"
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&site).Error; err != nil {
		return nil, err
	}
	return &site, nil
}

func GetSiteById(ctx context.Context, id int) (*Site, error) {
	var site Site
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("id = ?", id).Take(&site).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &site, nil
}

func ListSites(ctx context.Context, companyId string) ([]*Site, error) {
	var sites []*Site
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("company_id = ?", companyId).
		Order("id ASC").Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

func GetSitesByIds(ctx context.Context, ids []int) ([]*Site, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var sites []*Site
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("id IN ?", ids).
		Order("id ASC").Find(&sites).Error; err != nil {
		return nil, err
	}
	return sites, nil
}

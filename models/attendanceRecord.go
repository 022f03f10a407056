package models

import (
	"context"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/utils"
	"gorm.io/gorm"
)

// AttendanceRecord covers one employee's presence at one site for one
// work day. CheckOutTime is nil while the record is open.
type AttendanceRecord struct {
	ID         int       `gorm:"primary_key" json:"id"`
	CompanyId  string    `gorm:"index;size:36;not null" json:"company_id"`
	EmployeeId int       `gorm:"index:idx_attendance_employee_day,priority:1;not null" json:"employee_id"`
	SiteId     int       `gorm:"index;not null" json:"site_id"`
	WorkDate   time.Time `gorm:"index:idx_attendance_employee_day,priority:2;type:date;not null" json:"work_date"`

	// Scheduled wall-clock hours copied from the site at check-in time.
	ScheduledStart string `gorm:"size:5" json:"scheduled_start"`
	ScheduledEnd   string `gorm:"size:5" json:"scheduled_end"`

	CheckInTime      *time.Time       `json:"check_in_time"`
	CheckOutTime     *time.Time       `json:"check_out_time"`
	Status           AttendanceStatus `gorm:"size:20;not null;default:scheduled" json:"status"`
	TotalWorkMinutes int              `gorm:"not null;default:0" json:"total_work_minutes"`
	BreakMinutes     int              `gorm:"not null;default:0" json:"break_minutes"`
	OvertimeMinutes  int              `gorm:"not null;default:0" json:"overtime_minutes"`
	IsLate           *bool            `gorm:"not null;default:false" json:"is_late"`
	IsEarlyLeave     *bool            `gorm:"not null;default:false" json:"is_early_leave"`
	CheckInLocation  string           `gorm:"size:255" json:"check_in_location"`
	CheckOutLocation string           `gorm:"size:255" json:"check_out_location"`
	Notes            string           `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// GetOpenAttendanceRecord finds the checked-in record for the employee
// on the given work date, if one exists.
func GetOpenAttendanceRecord(ctx context.Context, tx *gorm.DB, employeeId int, workDate time.Time) (*AttendanceRecord, error) {
	var record AttendanceRecord
	if err := tx.WithContext(ctx).
		Where("employee_id = ? AND work_date = ? AND status = ?",
			employeeId, workDate.Format("2006-01-02"), AttendanceStatusCheckedIn).
		Take(&record).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &record, nil
}

// GetAttendanceRecordForDay returns any record for the employee on the
// work date regardless of status.
func GetAttendanceRecordForDay(ctx context.Context, tx *gorm.DB, employeeId int, workDate time.Time) (*AttendanceRecord, error) {
	var record AttendanceRecord
	if err := tx.WithContext(ctx).
		Where("employee_id = ? AND work_date = ?", employeeId, workDate.Format("2006-01-02")).
		Order("id DESC").
		Take(&record).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &record, nil
}

type AttendanceHistoryFilter struct {
	EmployeeId *int
	SiteId     *int
	From       time.Time
	To         time.Time
	Status     AttendanceStatus
	Limit      int
	Offset     int
}

func ListAttendanceRecords(ctx context.Context, companyId string, filter *AttendanceHistoryFilter) ([]*AttendanceRecord, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Where("company_id = ?", companyId)
	if filter.EmployeeId != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeId)
	}
	if filter.SiteId != nil {
		query = query.Where("site_id = ?", *filter.SiteId)
	}
	if !filter.From.IsZero() {
		query = query.Where("work_date >= ?", filter.From.Format("2006-01-02"))
	}
	if !filter.To.IsZero() {
		query = query.Where("work_date <= ?", filter.To.Format("2006-01-02"))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = config.SearchLimit
	}

	var records []*AttendanceRecord
	if err := query.Order("work_date DESC, id DESC").
		Limit(limit).Offset(filter.Offset).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ListCompletedAttendanceSince returns completed records for an employee
// with work_date on or after the cutoff, oldest first.
func ListCompletedAttendanceSince(ctx context.Context, employeeId int, since time.Time) ([]*AttendanceRecord, error) {
	var records []*AttendanceRecord
	db := config.GetDB()
	if err := db.WithContext(ctx).
		Where("employee_id = ? AND work_date >= ?", employeeId, since.Format("2006-01-02")).
		Where("status IN ?", []AttendanceStatus{AttendanceStatusCompleted, AttendanceStatusCheckedIn}).
		Order("work_date ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func ListAttendanceForDate(ctx context.Context, companyId string, workDate time.Time) ([]*AttendanceRecord, error) {
	var records []*AttendanceRecord
	db := config.GetDB()
	if err := db.WithContext(ctx).
		Where("company_id = ? AND work_date = ?", companyId, workDate.Format("2006-01-02")).
		Order("employee_id ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

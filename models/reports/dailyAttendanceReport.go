package reports

import (
	"context"
	"errors"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/utils"
)

type DailyAttendanceRow struct {
	EmployeeId       int        `json:"employeeId"`
	EmployeeCode     string     `json:"employeeCode"`
	EmployeeName     string     `json:"employeeName"`
	SiteName         *string    `json:"siteName,omitempty"`
	WorkDate         time.Time  `json:"workDate"`
	ScheduledStart   string     `json:"scheduledStart"`
	ScheduledEnd     string     `json:"scheduledEnd"`
	CheckInTime      *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime     *time.Time `json:"checkOutTime,omitempty"`
	Status           string     `json:"status"`
	TotalWorkMinutes int        `json:"totalWorkMinutes"`
	IsLate           bool       `json:"isLate"`
	IsEarlyLeave     bool       `json:"isEarlyLeave"`
	CheckInLocation  string     `json:"checkInLocation"`
	CheckOutLocation string     `json:"checkOutLocation"`
}

// GetDailyAttendanceReport lists every attendance record of the company
// for one work day with employee and site names resolved.
func GetDailyAttendanceReport(ctx context.Context, day time.Time) ([]*DailyAttendanceRow, error) {

	sql := `
SELECT
    ar.employee_id,
    employees.employee_code,
    users.full_name AS employee_name,
    sites.name AS site_name,
    ar.work_date,
    ar.scheduled_start,
    ar.scheduled_end,
    ar.check_in_time,
    ar.check_out_time,
    ar.status,
    ar.total_work_minutes,
    ar.is_late,
    ar.is_early_leave,
    ar.check_in_location,
    ar.check_out_location
FROM
    attendance_records ar
    LEFT JOIN employees ON employees.id = ar.employee_id
    LEFT JOIN users ON users.id = employees.user_id
    LEFT JOIN sites ON sites.id = ar.site_id
WHERE
    ar.company_id = @companyId
    AND ar.work_date = @workDate
ORDER BY
    ar.employee_id, ar.id;
`

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	var rows []*DailyAttendanceRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"companyId": companyId,
		"workDate":  day.Format("2006-01-02"),
	}).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r DailyAttendanceRow) GetCellValues() []interface{} {
	return []interface{}{
		r.EmployeeCode,
		r.EmployeeName,
		utils.DereferencePtr(r.SiteName),
		r.WorkDate.Format("2006-01-02"),
		formatClock(r.CheckInTime),
		formatClock(r.CheckOutTime),
		r.Status,
		r.TotalWorkMinutes,
		yesNo(r.IsLate),
		yesNo(r.IsEarlyLeave),
		r.CheckInLocation,
		r.CheckOutLocation,
	}
}

func formatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format("15:04")
}

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

package reports

import (
	"context"
	"errors"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/utils"
)

type ViolationReportRow struct {
	ViolationId   int       `json:"violationId"`
	EmployeeId    int       `json:"employeeId"`
	EmployeeCode  string    `json:"employeeCode"`
	EmployeeName  string    `json:"employeeName"`
	SiteName      *string   `json:"siteName,omitempty"`
	ViolationType string    `json:"violationType"`
	Severity      string    `json:"severity"`
	Description   string    `json:"description"`
	OccurredAt    time.Time `json:"occurredAt"`
	Status        string    `json:"status"`
	ReviewerName  *string   `json:"reviewerName,omitempty"`
}

// GetViolationsReport lists the company's violations inside the half-open
// interval [fromDate, toDate) with employee, site and reviewer resolved.
func GetViolationsReport(ctx context.Context, fromDate time.Time, toDate time.Time) ([]*ViolationReportRow, error) {

	sql := `
SELECT
    v.id AS violation_id,
    v.employee_id,
    employees.employee_code,
    users.full_name AS employee_name,
    sites.name AS site_name,
    v.violation_type,
    v.severity,
    v.description,
    v.occurred_at,
    v.status,
    reviewers.full_name AS reviewer_name
FROM
    violations v
    LEFT JOIN employees ON employees.id = v.employee_id
    LEFT JOIN users ON users.id = employees.user_id
    LEFT JOIN sites ON sites.id = v.site_id
    LEFT JOIN users reviewers ON reviewers.id = v.reviewed_by
WHERE
    v.company_id = @companyId
    AND v.occurred_at >= @fromDate
    AND v.occurred_at < @toDate
ORDER BY
    v.occurred_at, v.id;
`

	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}

	var rows []*ViolationReportRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"companyId": companyId,
		"fromDate":  fromDate.UTC(),
		"toDate":    toDate.UTC(),
	}).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r ViolationReportRow) GetCellValues() []interface{} {
	return []interface{}{
		r.ViolationId,
		r.EmployeeCode,
		r.EmployeeName,
		utils.DereferencePtr(r.SiteName),
		r.ViolationType,
		r.Severity,
		r.OccurredAt.Local().Format("2006-01-02 15:04"),
		r.Status,
		utils.DereferencePtr(r.ReviewerName),
		r.Description,
	}
}

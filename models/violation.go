package models

import (
	"context"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/utils"
	"gorm.io/gorm"
)

type Violation struct {
	ID            int               `gorm:"primary_key" json:"id"`
	CompanyId     string            `gorm:"index;size:36;not null" json:"company_id"`
	EmployeeId    int               `gorm:"index:idx_violation_dedup,priority:1;not null" json:"employee_id"`
	SiteId        *int              `gorm:"index" json:"site_id"`
	AttendanceId  *int              `gorm:"index" json:"attendance_id"`
	ViolationType ViolationType     `gorm:"index:idx_violation_dedup,priority:2;size:40;not null" json:"violation_type"`
	Severity      ViolationSeverity `gorm:"size:10;not null" json:"severity"`
	Description   string            `gorm:"type:text" json:"description"`
	Evidence      []byte            `gorm:"type:blob" json:"evidence"`
	AutoDetected  *bool             `gorm:"not null;default:true" json:"auto_detected"`
	OccurredAt    time.Time         `gorm:"index:idx_violation_dedup,priority:3;not null" json:"occurred_at"`
	Status        ViolationStatus   `gorm:"size:20;not null;default:pending" json:"status"`
	ReviewedBy    *int              `json:"reviewed_by"`
	ReviewedAt    *time.Time        `json:"reviewed_at"`
	ReviewNotes   string            `gorm:"type:text" json:"review_notes"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewViolation struct {
	CompanyId     string
	EmployeeId    int
	SiteId        *int
	AttendanceId  *int
	ViolationType ViolationType
	Severity      ViolationSeverity
	Description   string
	Evidence      []byte
	OccurredAt    time.Time
}

// CountViolationsInWindow reports how many violations of the same type
// already exist for the employee with occurred_at inside [from, to].
// The detection passes use this to suppress duplicates.
func CountViolationsInWindow(ctx context.Context, tx *gorm.DB, employeeId int, violationType ViolationType, from time.Time, to time.Time) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&Violation{}).
		Where("employee_id = ? AND violation_type = ?", employeeId, violationType).
		Where("occurred_at BETWEEN ? AND ?", from.UTC(), to.UTC()).
		Count(&count).Error
	return count, err
}

func CreateViolation(ctx context.Context, tx *gorm.DB, input *NewViolation) (*Violation, error) {
	autoDetected := true
	violation := Violation{
		CompanyId:     input.CompanyId,
		EmployeeId:    input.EmployeeId,
		SiteId:        input.SiteId,
		AttendanceId:  input.AttendanceId,
		ViolationType: input.ViolationType,
		Severity:      input.Severity,
		Description:   input.Description,
		Evidence:      input.Evidence,
		AutoDetected:  &autoDetected,
		OccurredAt:    input.OccurredAt.UTC(),
		Status:        ViolationStatusPending,
	}
	if err := tx.WithContext(ctx).Create(&violation).Error; err != nil {
		return nil, err
	}
	return &violation, nil
}

func GetViolationById(ctx context.Context, companyId string, id int) (*Violation, error) {
	var violation Violation
	db := config.GetDB()
	if err := db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyId, id).
		Take(&violation).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &violation, nil
}

type ViolationFilter struct {
	EmployeeId *int
	Type       ViolationType
	Severity   ViolationSeverity
	Status     ViolationStatus
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

func ListViolations(ctx context.Context, companyId string, filter *ViolationFilter) ([]*Violation, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).Where("company_id = ?", companyId)
	if filter.EmployeeId != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeId)
	}
	if filter.Type != "" {
		query = query.Where("violation_type = ?", filter.Type)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		query = query.Where("occurred_at >= ?", filter.From.UTC())
	}
	if !filter.To.IsZero() {
		query = query.Where("occurred_at < ?", filter.To.UTC())
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = config.SearchLimit
	}

	var violations []*Violation
	if err := query.Order("occurred_at DESC, id DESC").
		Limit(limit).Offset(filter.Offset).
		Find(&violations).Error; err != nil {
		return nil, err
	}
	return violations, nil
}

// ReviewViolation moves a violation to a reviewed status. Only pending
// and acknowledged violations may be reviewed.
func ReviewViolation(ctx context.Context, companyId string, id int, reviewerId int, status ViolationStatus, notes string) (*Violation, error) {
	if !status.IsValid() || status == ViolationStatusPending {
		return nil, utils.NewValidationError("invalid review status: %s", status)
	}

	violation, err := GetViolationById(ctx, companyId, id)
	if err != nil {
		return nil, err
	}
	if violation.Status == ViolationStatusResolved || violation.Status == ViolationStatusDismissed {
		return nil, utils.NewStateError("violation %d already %s", id, violation.Status)
	}

	now := time.Now().UTC()
	violation.Status = status
	violation.ReviewedBy = &reviewerId
	violation.ReviewedAt = &now
	violation.ReviewNotes = notes

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&Violation{}).
		Where("id = ?", violation.ID).
		Updates(map[string]interface{}{
			"status":       violation.Status,
			"reviewed_by":  violation.ReviewedBy,
			"reviewed_at":  violation.ReviewedAt,
			"review_notes": violation.ReviewNotes,
		}).Error; err != nil {
		return nil, err
	}
	return violation, nil
}

func ListViolationsForDate(ctx context.Context, companyId string, dayStart time.Time, dayEnd time.Time) ([]*Violation, error) {
	var violations []*Violation
	db := config.GetDB()
	if err := db.WithContext(ctx).
		Where("company_id = ?", companyId).
		Where("occurred_at >= ? AND occurred_at < ?", dayStart.UTC(), dayEnd.UTC()).
		Order("employee_id ASC, occurred_at ASC").
		Find(&violations).Error; err != nil {
		return nil, err
	}
	return violations, nil
}

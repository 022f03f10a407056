package models

import (
	"context"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"gorm.io/gorm"
)

// ViolationAlertRecord is the transactional outbox row for violation
// alerts. It is written in the same transaction as the violation and
// published afterwards by the alert dispatcher.
type ViolationAlertRecord struct {
	ID            int       `gorm:"primary_key;index:idx_alert_dispatch,priority:3" json:"id"`
	CompanyId     string    `gorm:"size:36;not null;index" json:"company_id"`
	EmployeeId    int       `gorm:"not null;index" json:"employee_id"`
	ViolationId   int       `gorm:"not null;index" json:"violation_id"`
	ViolationType string    `gorm:"size:40;not null" json:"violation_type"`
	Severity      string    `gorm:"size:10;not null" json:"severity"`
	Description   string    `gorm:"type:text" json:"description"`
	OccurredAt    time.Time `gorm:"not null" json:"occurred_at"`

	// Publish lifecycle metadata, mirrors the dispatcher's claim protocol.
	PublishStatus    string     `gorm:"size:20;index;not null;default:'PENDING';index:idx_alert_dispatch,priority:1" json:"publish_status"`
	PublishedAt      *time.Time `gorm:"index" json:"published_at"`
	PubSubMessageId  *string    `gorm:"size:255" json:"pubsub_message_id"`
	PublishAttempts  int        `gorm:"not null;default:0" json:"publish_attempts"`
	NextAttemptAt    *time.Time `gorm:"index;index:idx_alert_dispatch,priority:2" json:"next_attempt_at"`
	LockedAt         *time.Time `gorm:"index" json:"locked_at"`
	LockedBy         *string    `gorm:"size:100" json:"locked_by"`
	LastPublishError *string    `gorm:"type:text" json:"last_publish_error"`
	CorrelationId    string     `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func ConvertToViolationAlertMessage(record ViolationAlertRecord) config.ViolationAlertMessage {
	return config.ViolationAlertMessage{
		ID:            record.ID,
		CompanyId:     record.CompanyId,
		EmployeeId:    record.EmployeeId,
		ViolationId:   record.ViolationId,
		ViolationType: record.ViolationType,
		Severity:      record.Severity,
		OccurredAt:    record.OccurredAt,
		Description:   record.Description,
		CorrelationId: record.CorrelationId,
	}
}

// EnqueueViolationAlert writes an alert row inside the caller's
// transaction so the alert commits or rolls back with the violation.
// Only high and critical violations alert.
func EnqueueViolationAlert(ctx context.Context, tx *gorm.DB, violation *Violation, correlationId string) error {
	if !config.ViolationAlertsEnabled() {
		return nil
	}
	if !violation.Severity.Alertable() {
		return nil
	}
	record := ViolationAlertRecord{
		CompanyId:     violation.CompanyId,
		EmployeeId:    violation.EmployeeId,
		ViolationId:   violation.ID,
		ViolationType: string(violation.ViolationType),
		Severity:      string(violation.Severity),
		Description:   violation.Description,
		OccurredAt:    violation.OccurredAt,
		PublishStatus: AlertPublishStatusPending,
		CorrelationId: correlationId,
	}
	return tx.WithContext(ctx).Create(&record).Error
}

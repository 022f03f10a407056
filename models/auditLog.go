package models

import (
	"context"
	"encoding/json"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/utils"
)

// AuditLog is an append-only trail of administrative actions.
type AuditLog struct {
	ID            int       `gorm:"primary_key" json:"id"`
	CompanyId     string    `gorm:"index;size:36" json:"company_id"`
	UserId        int       `gorm:"index" json:"user_id"`
	Action        string    `gorm:"size:60;not null" json:"action"`
	ResourceType  string    `gorm:"size:40;not null" json:"resource_type"`
	ResourceId    string    `gorm:"size:40" json:"resource_id"`
	Detail        []byte    `gorm:"type:blob" json:"detail"`
	CorrelationId string    `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// WriteAuditLog records an action. Failures are logged and swallowed so
// audit writes never fail the operation they describe.
func WriteAuditLog(ctx context.Context, action string, resourceType string, resourceId string, detail interface{}) {
	logger := config.GetLogger()
	companyId, _ := utils.GetCompanyIdFromContext(ctx)
	userId, _ := utils.GetUserIdFromContext(ctx)
	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)

	var payload []byte
	if detail != nil {
		b, err := json.Marshal(detail)
		if err != nil {
			config.LogError(logger, "models", "WriteAuditLog", action, detail, err)
			return
		}
		payload = b
	}

	entry := AuditLog{
		CompanyId:     companyId,
		UserId:        userId,
		Action:        action,
		ResourceType:  resourceType,
		ResourceId:    resourceId,
		Detail:        payload,
		CorrelationId: correlationId,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		config.LogError(logger, "models", "WriteAuditLog", action, entry, err)
	}
}

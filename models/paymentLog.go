package models

import (
	"context"
	"fmt"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentLog records every deposit and refund movement against a job
// application. MerchantPayKey is the idempotency key handed to the
// payment gateway.
type PaymentLog struct {
	ID             int             `gorm:"primary_key" json:"id"`
	ApplicationId  int             `gorm:"index;not null" json:"application_id"`
	PaymentType    PaymentType     `gorm:"size:10;not null" json:"payment_type"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status         PaymentStatus   `gorm:"size:20;not null;default:pending" json:"status"`
	MerchantPayKey string          `gorm:"size:64;unique;not null" json:"merchant_pay_key"`
	GatewayTxId    *string         `gorm:"size:128" json:"gateway_tx_id"`
	FailureReason  string          `gorm:"type:text" json:"failure_reason"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func newMerchantPayKey(applicationId int) string {
	return fmt.Sprintf("daycrew_%d_%s", applicationId, uuid.NewString()[:8])
}

// RequestDeposit opens a pending deposit payment for an approved
// application. Repeated calls while a pending payment exists return the
// existing log instead of opening another one.
func RequestDeposit(ctx context.Context, applicantId int, applicationId int) (*PaymentLog, error) {
	application, err := GetJobApplicationById(ctx, applicationId)
	if err != nil {
		return nil, err
	}
	if application.ApplicantId != applicantId {
		return nil, utils.NewValidationError("application %d does not belong to applicant", applicationId)
	}
	if application.Status != ApplicationStatusApproved {
		return nil, utils.NewStateError("deposit requires an approved application, got %s", application.Status)
	}
	if application.DepositPaid != nil && *application.DepositPaid {
		return nil, utils.NewStateError("deposit already paid for application %d", applicationId)
	}
	if application.DepositAmount.IsZero() {
		return nil, utils.NewStateError("application %d requires no deposit", applicationId)
	}

	db := config.GetDB()
	var existing PaymentLog
	err = db.WithContext(ctx).
		Where("application_id = ? AND payment_type = ? AND status = ?",
			applicationId, PaymentTypeDeposit, PaymentStatusPending).
		Take(&existing).Error
	if err == nil {
		return &existing, nil
	}

	log := PaymentLog{
		ApplicationId:  applicationId,
		PaymentType:    PaymentTypeDeposit,
		Amount:         application.DepositAmount,
		Status:         PaymentStatusPending,
		MerchantPayKey: newMerchantPayKey(applicationId),
	}
	if err := db.WithContext(ctx).Create(&log).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// CompleteDeposit marks a pending deposit as completed after the
// gateway callback, flipping the application's paid flag in the same
// transaction.
func CompleteDeposit(ctx context.Context, merchantPayKey string, gatewayTxId string) (*PaymentLog, error) {
	db := config.GetDB()
	var log PaymentLog
	if err := db.WithContext(ctx).
		Where("merchant_pay_key = ?", merchantPayKey).
		Take(&log).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if log.Status == PaymentStatusCompleted {
		return &log, nil
	}
	if log.Status != PaymentStatusPending {
		return nil, utils.NewStateError("payment %s is %s", merchantPayKey, log.Status)
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&PaymentLog{}).
			Where("id = ?", log.ID).
			Updates(map[string]interface{}{
				"status":        PaymentStatusCompleted,
				"gateway_tx_id": &gatewayTxId,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&JobApplication{}).
			Where("id = ?", log.ApplicationId).
			Update("deposit_paid", true).Error
	})
	if err != nil {
		return nil, err
	}
	log.Status = PaymentStatusCompleted
	log.GatewayTxId = &gatewayTxId
	return &log, nil
}

func FailPayment(ctx context.Context, merchantPayKey string, reason string) error {
	db := config.GetDB()
	return db.WithContext(ctx).Model(&PaymentLog{}).
		Where("merchant_pay_key = ? AND status = ?", merchantPayKey, PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":         PaymentStatusFailed,
			"failure_reason": reason,
		}).Error
}

// refundDeposit writes the refund leg and flips the refunded flag.
// Runs inside the caller's transaction.
func refundDeposit(ctx context.Context, tx *gorm.DB, application *JobApplication) error {
	refund := PaymentLog{
		ApplicationId:  application.ID,
		PaymentType:    PaymentTypeRefund,
		Amount:         application.DepositAmount,
		Status:         PaymentStatusCompleted,
		MerchantPayKey: newMerchantPayKey(application.ID),
	}
	if err := tx.WithContext(ctx).Create(&refund).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Model(&JobApplication{}).
		Where("id = ?", application.ID).
		Update("deposit_refunded", true).Error
}

func ListPaymentLogs(ctx context.Context, applicationId int) ([]*PaymentLog, error) {
	var logs []*PaymentLog
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("application_id = ?", applicationId).
		Order("id ASC").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

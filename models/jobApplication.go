package models

import (
	"context"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type JobApplication struct {
	ID          int               `gorm:"primary_key" json:"id"`
	JobPostId   int               `gorm:"not null;uniqueIndex:idx_post_applicant" json:"job_post_id"`
	ApplicantId int               `gorm:"not null;uniqueIndex:idx_post_applicant" json:"applicant_id"`
	Message     string            `gorm:"type:text" json:"message"`
	Status      ApplicationStatus `gorm:"size:20;not null;default:pending" json:"status"`
	// Deposit ledger. DepositPaid flips once the payment completes and
	// DepositRefunded once the refund is issued after completed work.
	DepositAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"deposit_amount"`
	DepositPaid     *bool           `gorm:"not null;default:false" json:"deposit_paid"`
	DepositRefunded *bool           `gorm:"not null;default:false" json:"deposit_refunded"`
	AppliedAt       time.Time       `gorm:"autoCreateTime" json:"applied_at"`
	DecidedAt       *time.Time      `json:"decided_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewJobApplication struct {
	JobPostId int    `json:"job_post_id" binding:"required"`
	Message   string `json:"message"`
}

func CreateJobApplication(ctx context.Context, applicantId int, input *NewJobApplication) (*JobApplication, error) {
	post, err := GetJobPostById(ctx, input.JobPostId)
	if err != nil {
		return nil, err
	}
	if post.IsActive != nil && !*post.IsActive {
		return nil, utils.NewStateError("job post %d is closed", post.ID)
	}
	if post.Deadline != nil && post.Deadline.Before(time.Now().UTC()) {
		return nil, utils.NewStateError("job post %d deadline has passed", post.ID)
	}
	if post.Status == JobPostStatusFull {
		return nil, utils.NewStateError("job post %d is full", post.ID)
	}

	db := config.GetDB()
	var existing int64
	if err := db.WithContext(ctx).Model(&JobApplication{}).
		Where("job_post_id = ? AND applicant_id = ?", post.ID, applicantId).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, utils.NewStateError("already applied to job post %d", post.ID)
	}

	application := JobApplication{
		JobPostId:       post.ID,
		ApplicantId:     applicantId,
		Message:         input.Message,
		Status:          ApplicationStatusPending,
		DepositAmount:   post.DepositAmount,
		DepositPaid:     utils.NewFalse(),
		DepositRefunded: utils.NewFalse(),
	}
	if post.AutoApproval != nil && *post.AutoApproval {
		now := time.Now().UTC()
		application.Status = ApplicationStatusApproved
		application.DecidedAt = &now
	}

	if err := db.WithContext(ctx).Create(&application).Error; err != nil {
		return nil, err
	}
	if application.Status == ApplicationStatusApproved {
		_ = RefreshJobPostStatus(ctx, post.ID)
	}
	return &application, nil
}

func GetJobApplicationById(ctx context.Context, id int) (*JobApplication, error) {
	var application JobApplication
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("id = ?", id).Take(&application).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &application, nil
}

func ListJobApplications(ctx context.Context, jobPostId int) ([]*JobApplication, error) {
	var applications []*JobApplication
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("job_post_id = ?", jobPostId).
		Order("applied_at ASC, id ASC").Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func ListApplicationsByApplicant(ctx context.Context, applicantId int) ([]*JobApplication, error) {
	var applications []*JobApplication
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("applicant_id = ?", applicantId).
		Order("applied_at DESC, id DESC").Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending:  {ApplicationStatusApproved, ApplicationStatusRejected},
	ApplicationStatusApproved: {ApplicationStatusWorking, ApplicationStatusRejected},
	ApplicationStatusWorking:  {ApplicationStatusCompleted},
}

func canTransitionApplication(from ApplicationStatus, to ApplicationStatus) bool {
	for _, allowed := range applicationTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// DecideJobApplication moves an application through its lifecycle. The
// decider must be the author of the job post.
func DecideJobApplication(ctx context.Context, deciderId int, applicationId int, status ApplicationStatus) (*JobApplication, error) {
	application, err := GetJobApplicationById(ctx, applicationId)
	if err != nil {
		return nil, err
	}
	post, err := GetJobPostById(ctx, application.JobPostId)
	if err != nil {
		return nil, err
	}
	if post.AuthorId != deciderId {
		return nil, utils.NewValidationError("only the post author can decide applications")
	}
	if !canTransitionApplication(application.Status, status) {
		return nil, utils.NewStateError("cannot move application from %s to %s", application.Status, status)
	}

	now := time.Now().UTC()
	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&JobApplication{}).
			Where("id = ?", application.ID).
			Updates(map[string]interface{}{
				"status":     status,
				"decided_at": &now,
			}).Error; err != nil {
			return err
		}
		// Completed work releases the deposit back to the applicant.
		if status == ApplicationStatusCompleted &&
			application.DepositPaid != nil && *application.DepositPaid &&
			application.DepositRefunded != nil && !*application.DepositRefunded {
			return refundDeposit(ctx, tx, application)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	application.Status = status
	application.DecidedAt = &now
	_ = RefreshJobPostStatus(ctx, post.ID)
	return application, nil
}

package models

import (
	"context"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/utils"
	"github.com/shopspring/decimal"
)

type JobPost struct {
	ID            int             `gorm:"primary_key" json:"id"`
	CompanyId     string          `gorm:"index;size:36;not null" json:"company_id"`
	AuthorId      int             `gorm:"index;not null" json:"author_id"`
	Title         string          `gorm:"size:200;not null" json:"title" binding:"required"`
	CompanyName   string          `gorm:"size:100;not null" json:"company_name"`
	Description   string          `gorm:"type:text" json:"description"`
	Requirements  string          `gorm:"type:text" json:"requirements"`
	Salary        string          `gorm:"size:100" json:"salary"`
	WorkHours     string          `gorm:"size:100" json:"work_hours"`
	WorkAddress   string          `gorm:"type:text;not null" json:"work_address"`
	WorkLatitude  float64         `gorm:"not null" json:"work_latitude"`
	WorkLongitude float64         `gorm:"not null" json:"work_longitude"`
	// Deposit the applicant pays up front, refunded after completion.
	DepositAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"deposit_amount"`
	GeofenceRadius float64        `gorm:"not null;default:100" json:"geofence_radius"`
	Deadline      *time.Time      `json:"deadline"`
	MaxApplicants *int            `json:"max_applicants"`
	AutoApproval  *bool           `gorm:"not null;default:false" json:"auto_approval"`
	Status        JobPostStatus   `gorm:"size:20;not null;default:active" json:"status"`
	IsActive      *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewJobPost struct {
	Title          string          `json:"title" binding:"required"`
	CompanyName    string          `json:"company_name" binding:"required"`
	Description    string          `json:"description"`
	Requirements   string          `json:"requirements"`
	Salary         string          `json:"salary"`
	WorkHours      string          `json:"work_hours"`
	WorkAddress    string          `json:"work_address" binding:"required"`
	WorkLatitude   float64         `json:"work_latitude" binding:"required"`
	WorkLongitude  float64         `json:"work_longitude" binding:"required"`
	DepositAmount  decimal.Decimal `json:"deposit_amount"`
	GeofenceRadius float64         `json:"geofence_radius"`
	Deadline       *time.Time      `json:"deadline"`
	MaxApplicants  *int            `json:"max_applicants"`
	AutoApproval   bool            `json:"auto_approval"`
}

func (input *NewJobPost) validate() error {
	if input.WorkLatitude < -90 || input.WorkLatitude > 90 {
		return utils.NewValidationError("latitude out of range: %f", input.WorkLatitude)
	}
	if input.WorkLongitude < -180 || input.WorkLongitude > 180 {
		return utils.NewValidationError("longitude out of range: %f", input.WorkLongitude)
	}
	if input.DepositAmount.IsNegative() {
		return utils.NewValidationError("deposit amount must not be negative")
	}
	if input.MaxApplicants != nil && *input.MaxApplicants <= 0 {
		return utils.NewValidationError("max_applicants must be positive")
	}
	return nil
}

func CreateJobPost(ctx context.Context, companyId string, authorId int, input *NewJobPost) (*JobPost, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	autoApproval := input.AutoApproval
	post := JobPost{
		CompanyId:      companyId,
		AuthorId:       authorId,
		Title:          input.Title,
		CompanyName:    input.CompanyName,
		Description:    input.Description,
		Requirements:   input.Requirements,
		Salary:         input.Salary,
		WorkHours:      input.WorkHours,
		WorkAddress:    input.WorkAddress,
		WorkLatitude:   input.WorkLatitude,
		WorkLongitude:  input.WorkLongitude,
		DepositAmount:  input.DepositAmount,
		GeofenceRadius: input.GeofenceRadius,
		Deadline:       input.Deadline,
		MaxApplicants:  input.MaxApplicants,
		AutoApproval:   &autoApproval,
		Status:         JobPostStatusActive,
		IsActive:       utils.NewTrue(),
	}
	if post.GeofenceRadius == 0 {
		post.GeofenceRadius = 100
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func GetJobPostById(ctx context.Context, id int) (*JobPost, error) {
	var post JobPost
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("id = ?", id).Take(&post).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &post, nil
}

type JobPostFilter struct {
	Search string
	Limit  int
	Offset int
}

// ListJobPosts returns active posts whose deadline has not passed,
// newest first.
func ListJobPosts(ctx context.Context, filter *JobPostFilter) ([]*JobPost, error) {
	db := config.GetDB()
	query := db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("deadline IS NULL OR deadline > ?", time.Now().UTC())
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"title LIKE ? OR company_name LIKE ? OR description LIKE ? OR work_address LIKE ?",
			like, like, like, like)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = config.SearchLimit
	}

	var posts []*JobPost
	if err := query.Order("created_at DESC, id DESC").
		Limit(limit).Offset(filter.Offset).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// RefreshJobPostStatus recomputes a post's status from its approved
// applicant count and deadline.
func RefreshJobPostStatus(ctx context.Context, postId int) error {
	post, err := GetJobPostById(ctx, postId)
	if err != nil {
		return err
	}

	db := config.GetDB()
	status := JobPostStatusActive
	if post.Deadline != nil && post.Deadline.Before(time.Now().UTC()) {
		status = JobPostStatusExpired
	} else if post.MaxApplicants != nil {
		var approved int64
		if err := db.WithContext(ctx).Model(&JobApplication{}).
			Where("job_post_id = ? AND status IN ?", postId,
				[]ApplicationStatus{ApplicationStatusApproved, ApplicationStatusWorking, ApplicationStatusCompleted}).
			Count(&approved).Error; err != nil {
			return err
		}
		if approved >= int64(*post.MaxApplicants) {
			status = JobPostStatusFull
		}
	}
	if status == post.Status {
		return nil
	}
	return db.WithContext(ctx).Model(&JobPost{}).
		Where("id = ?", postId).Update("status", status).Error
}

func CloseJobPost(ctx context.Context, companyId string, authorId int, id int) error {
	post, err := GetJobPostById(ctx, id)
	if err != nil {
		return err
	}
	if post.CompanyId != companyId || post.AuthorId != authorId {
		return utils.NewValidationError("job post %d does not belong to author", id)
	}
	db := config.GetDB()
	return db.WithContext(ctx).Model(&JobPost{}).
		Where("id = ?", id).Update("is_active", false).Error
}

package models

import (
	"context"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/utils"
)

type Department struct {
	ID          int       `gorm:"primary_key" json:"id"`
	CompanyId   string    `gorm:"index;size:36;not null" json:"company_id"`
	Name        string    `gorm:"size:100;not null" json:"name" binding:"required"`
	ManagerId   *int      `gorm:"index" json:"manager_id"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewDepartment struct {
	Name        string `json:"name" binding:"required"`
	ManagerId   *int   `json:"manager_id"`
	Description string `json:"description"`
}

func CreateDepartment(ctx context.Context, companyId string, input *NewDepartment) (*Department, error) {
	if err := utils.ValidateUnique[Department](ctx, companyId, "name", input.Name, 0); err != nil {
		return nil, err
	}
	if input.ManagerId != nil {
		if err := utils.ValidateResourceId[User](ctx, companyId, *input.ManagerId); err != nil {
			return nil, utils.NewValidationError("manager not found")
		}
	}

	dept := Department{
		CompanyId:   companyId,
		Name:        input.Name,
		ManagerId:   input.ManagerId,
		Description: input.Description,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&dept).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func ListDepartments(ctx context.Context, companyId string) ([]*Department, error) {
	var depts []*Department
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("company_id = ?", companyId).
		Order("name ASC").Find(&depts).Error; err != nil {
		return nil, err
	}
	return depts, nil
}

func DeleteDepartment(ctx context.Context, companyId string, id int) error {
	if err := utils.ValidateResourceId[Department](ctx, companyId, id); err != nil {
		return err
	}
	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&Employee{}).
		Where("department_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return utils.NewStateError("department has %d employees; reassign them first", count)
	}
	return db.WithContext(ctx).Where("company_id = ? AND id = ?", companyId, id).
		Delete(&Department{}).Error
}

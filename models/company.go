package models

import (
	"context"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/utils"
	"github.com/google/uuid"
)

type Company struct {
	ID             string    `gorm:"primary_key;size:36" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name" binding:"required"`
	BusinessNumber string    `gorm:"size:20;unique;not null" json:"business_number" binding:"required"`
	Address        string    `gorm:"type:text" json:"address"`
	Phone          string    `gorm:"size:20" json:"phone"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCompany struct {
	Name           string `json:"name" binding:"required"`
	BusinessNumber string `json:"business_number" binding:"required"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
}

func CreateCompany(ctx context.Context, input *NewCompany) (*Company, error) {
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return nil, utils.NewValidationError("invalid phone number: %s", input.Phone)
		}
	}

	company := Company{
		ID:             uuid.NewString(),
		Name:           input.Name,
		BusinessNumber: input.BusinessNumber,
		Address:        input.Address,
		Phone:          input.Phone,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func GetCompanyById(ctx context.Context, id string) (*Company, error) {
	var company Company
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("id = ?", id).Take(&company).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &company, nil
}

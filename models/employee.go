package models

import (
	"context"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/utils"
	"gorm.io/gorm"
)

type Employee struct {
	ID           int        `gorm:"primary_key" json:"id"`
	CompanyId    string     `gorm:"index;size:36;not null" json:"company_id"`
	UserId       int        `gorm:"index;not null;unique" json:"user_id"`
	EmployeeCode string     `gorm:"size:30;not null" json:"employee_code"`
	DepartmentId *int       `gorm:"index" json:"department_id"`
	Position     string     `gorm:"size:50" json:"position"`
	Phone        string     `gorm:"size:20" json:"phone"`
	HireDate     *time.Time `json:"hire_date"`
	IsActive     *bool      `gorm:"not null;default:true" json:"is_active"`

	// GPS tracking configuration.
	GpsTrackingEnabled *bool     `gorm:"not null;default:true" json:"gps_tracking_enabled"`
	UpdateIntervalSec  int       `gorm:"not null;default:60" json:"update_interval_sec"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// EmployeeSiteAssignment links an employee to a site they may attend.
type EmployeeSiteAssignment struct {
	ID         int       `gorm:"primary_key" json:"id"`
	EmployeeId int       `gorm:"not null;uniqueIndex:idx_employee_site" json:"employee_id"`
	SiteId     int       `gorm:"not null;uniqueIndex:idx_employee_site" json:"site_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewEmployee struct {
	UserId       int        `json:"user_id" binding:"required"`
	EmployeeCode string     `json:"employee_code" binding:"required"`
	DepartmentId *int       `json:"department_id"`
	Position     string     `json:"position"`
	Phone        string     `json:"phone"`
	HireDate     *time.Time `json:"hire_date"`
	SiteIds      []int      `json:"site_ids"`
}

func (input *NewEmployee) validate(ctx context.Context, companyId string) error {
	user, err := GetUserById(ctx, input.UserId)
	if err != nil {
		return utils.NewValidationError("user not found: %d", input.UserId)
	}
	if user.CompanyId != companyId {
		return utils.NewValidationError("user belongs to another company")
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return utils.NewValidationError("invalid phone number: %s", input.Phone)
		}
	}
	if err := utils.ValidateUnique[Employee](ctx, companyId, "employee_code", input.EmployeeCode, 0); err != nil {
		return err
	}
	if input.DepartmentId != nil {
		if err := utils.ValidateResourceId[Department](ctx, companyId, *input.DepartmentId); err != nil {
			return utils.NewValidationError("department not found: %d", *input.DepartmentId)
		}
	}
	siteIds := utils.UniqueSlice(input.SiteIds)
	if err := utils.ValidateResourcesId[Site](ctx, companyId, siteIds); err != nil {
		return utils.NewValidationError("one or more sites not found")
	}
	input.SiteIds = siteIds
	return nil
}

func CreateEmployee(ctx context.Context, companyId string, input *NewEmployee) (*Employee, error) {
	if err := input.validate(ctx, companyId); err != nil {
		return nil, err
	}

	employee := Employee{
		CompanyId:          companyId,
		UserId:             input.UserId,
		EmployeeCode:       input.EmployeeCode,
		DepartmentId:       input.DepartmentId,
		Position:           input.Position,
		Phone:              input.Phone,
		HireDate:           input.HireDate,
		IsActive:           utils.NewTrue(),
		GpsTrackingEnabled: utils.NewTrue(),
		UpdateIntervalSec:  60,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&employee).Error; err != nil {
			return err
		}
		for _, siteId := range input.SiteIds {
			assignment := EmployeeSiteAssignment{
				EmployeeId: employee.ID,
				SiteId:     siteId,
			}
			if err := tx.Create(&assignment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

type UpdateEmployeeInput struct {
	Position           *string `json:"position"`
	Phone              *string `json:"phone"`
	DepartmentId       *int    `json:"department_id"`
	IsActive           *bool   `json:"is_active"`
	GpsTrackingEnabled *bool   `json:"gps_tracking_enabled"`
	UpdateIntervalSec  *int    `json:"update_interval_sec"`

	// When present, replaces the employee's site assignment set.
	SiteIds []int `json:"site_ids"`
}

func UpdateEmployee(ctx context.Context, companyId string, id int, input *UpdateEmployeeInput) (*Employee, error) {
	employee, err := GetEmployeeById(ctx, companyId, id)
	if err != nil {
		return nil, err
	}

	if input.Phone != nil && *input.Phone != "" {
		if err := utils.ValidatePhoneNumber(*input.Phone, utils.CountryCode); err != nil {
			return nil, utils.NewValidationError("invalid phone number: %s", *input.Phone)
		}
	}
	if input.DepartmentId != nil {
		if err := utils.ValidateResourceId[Department](ctx, companyId, *input.DepartmentId); err != nil {
			return nil, utils.NewValidationError("department not found: %d", *input.DepartmentId)
		}
	}
	siteIds := utils.UniqueSlice(input.SiteIds)
	if input.SiteIds != nil {
		if err := utils.ValidateResourcesId[Site](ctx, companyId, siteIds); err != nil {
			return nil, utils.NewValidationError("one or more sites not found")
		}
	}

	updates := map[string]interface{}{}
	if input.Position != nil {
		updates["position"] = *input.Position
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.DepartmentId != nil {
		updates["department_id"] = *input.DepartmentId
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.GpsTrackingEnabled != nil {
		updates["gps_tracking_enabled"] = *input.GpsTrackingEnabled
	}
	if input.UpdateIntervalSec != nil && *input.UpdateIntervalSec > 0 {
		updates["update_interval_sec"] = *input.UpdateIntervalSec
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&Employee{}).Where("id = ?", employee.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		if input.SiteIds != nil {
			if err := tx.Where("employee_id = ?", employee.ID).Delete(&EmployeeSiteAssignment{}).Error; err != nil {
				return err
			}
			for _, siteId := range siteIds {
				if err := tx.Create(&EmployeeSiteAssignment{EmployeeId: employee.ID, SiteId: siteId}).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetEmployeeById(ctx, companyId, id)
}

func GetEmployeeById(ctx context.Context, companyId string, id int) (*Employee, error) {
	var employee Employee
	db := config.GetDB()
	query := db.WithContext(ctx).Where("id = ?", id)
	if companyId != "" {
		query = query.Where("company_id = ?", companyId)
	}
	if err := query.Take(&employee).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &employee, nil
}

func GetEmployeeByUserId(ctx context.Context, userId int) (*Employee, error) {
	var employee Employee
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("user_id = ?", userId).Take(&employee).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &employee, nil
}

func ListEmployees(ctx context.Context, companyId string, departmentId *int) ([]*Employee, error) {
	var employees []*Employee
	db := config.GetDB()
	query := db.WithContext(ctx).Where("company_id = ?", companyId)
	if departmentId != nil {
		query = query.Where("department_id = ?", *departmentId)
	}
	if err := query.Order("id ASC").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// AssignedSiteIds returns the ids of sites the employee is assigned to,
// in ascending order.
func AssignedSiteIds(ctx context.Context, employeeId int) ([]int, error) {
	var ids []int
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&EmployeeSiteAssignment{}).
		Where("employee_id = ?", employeeId).
		Order("site_id ASC").Pluck("site_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func AssignedSites(ctx context.Context, employeeId int) ([]*Site, error) {
	ids, err := AssignedSiteIds(ctx, employeeId)
	if err != nil {
		return nil, err
	}
	return GetSitesByIds(ctx, ids)
}

func AssignEmployeeToSite(ctx context.Context, companyId string, employeeId int, siteId int) error {
	if err := utils.ValidateResourceId[Employee](ctx, companyId, employeeId); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Site](ctx, companyId, siteId); err != nil {
		return err
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&EmployeeSiteAssignment{}).
		Where("employee_id = ? AND site_id = ?", employeeId, siteId).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&EmployeeSiteAssignment{
		EmployeeId: employeeId,
		SiteId:     siteId,
	}).Error
}

func UnassignEmployeeFromSite(ctx context.Context, companyId string, employeeId int, siteId int) error {
	if err := utils.ValidateResourceId[Employee](ctx, companyId, employeeId); err != nil {
		return err
	}
	db := config.GetDB()
	return db.WithContext(ctx).
		Where("employee_id = ? AND site_id = ?", employeeId, siteId).
		Delete(&EmployeeSiteAssignment{}).Error
}

func DeleteEmployee(ctx context.Context, companyId string, id int) error {
	if err := utils.ValidateResourceId[Employee](ctx, companyId, id); err != nil {
		return err
	}
	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("employee_id = ?", id).Delete(&EmployeeSiteAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", id).Delete(&Violation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", id).Delete(&AttendanceRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("employee_id = ?", id).Delete(&LocationEvent{}).Error; err != nil {
			return err
		}
		return tx.Where("company_id = ? AND id = ?", companyId, id).Delete(&Employee{}).Error
	})
}

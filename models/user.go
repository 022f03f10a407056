package models

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"

	"github.com/daycrew/attendance_backend/config"
	"github.com/daycrew/attendance_backend/utils"
)

type User struct {
	ID        int        `gorm:"primary_key" json:"id"`
	CompanyId string     `gorm:"index;size:36" json:"company_id"`
	Username  string     `gorm:"size:50;not null;unique" json:"username" binding:"required"`
	Email     string     `gorm:"size:100;not null;unique" json:"email" binding:"required"`
	Password  string     `gorm:"size:255;not null" json:"password"`
	FullName  string     `gorm:"size:100;not null" json:"full_name"`
	Role      UserRole   `gorm:"size:20;not null;default:employee" json:"role"`
	IsActive  *bool      `gorm:"not null;default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	CompanyId string   `json:"company_id"`
	Username  string   `json:"username" binding:"required"`
	Email     string   `json:"email" binding:"required,email"`
	Password  string   `json:"password" binding:"required,min=8"`
	FullName  string   `json:"full_name" binding:"required"`
	Role      UserRole `json:"role"`
}

type LoginInfo struct {
	Token    string   `json:"token"`
	Username string   `json:"username"`
	FullName string   `json:"full_name"`
	Role     UserRole `json:"role"`
}

/*
caches:
	User:$username
*/

func (user User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("User:" + user.Username)
}

func (result *User) PrepareGive() {
	result.Password = ""
}

func (input *NewUser) validate(ctx context.Context) error {
	if !utils.IsValidEmail(input.Email) {
		return utils.NewValidationError("invalid email: %s", input.Email)
	}
	if input.Role == "" {
		input.Role = UserRoleEmployee
	}
	if !input.Role.IsValid() {
		return utils.NewValidationError("invalid role: %s", input.Role)
	}
	if err := utils.ValidateUnique[User](ctx, "", "username", input.Username, 0); err != nil {
		return err
	}
	if err := utils.ValidateUnique[User](ctx, "", "email", input.Email, 0); err != nil {
		return err
	}
	return nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	input.Username = html.EscapeString(strings.TrimSpace(input.Username))
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		CompanyId: input.CompanyId,
		Username:  input.Username,
		Email:     input.Email,
		Password:  string(hashed),
		FullName:  input.FullName,
		Role:      input.Role,
		IsActive:  utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	exists, err := config.GetRedisObject("User:"+username, &user)
	if err == nil && exists {
		return &user, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	_ = config.SetRedisObject("User:"+username, &user, time.Hour)
	return &user, nil
}

func GetUserById(ctx context.Context, id int) (*User, error) {
	var user User
	db := config.GetDB()
	if err := db.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &user, nil
}

func Login(ctx context.Context, username string, password string) (*LoginInfo, error) {
	user, err := GetUserByUsername(ctx, username)
	if err != nil {
		return nil, errors.New("invalid username or password")
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, errors.New("account is disabled")
	}
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, errors.New("invalid username or password")
	}

	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	now := time.Now()
	db := config.GetDB()
	_ = db.WithContext(ctx).Model(&User{}).Where("id = ?", user.ID).
		Update("last_login", &now).Error
	_ = user.RemoveInstanceRedis()

	return &LoginInfo{
		Token:    token,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
	}, nil
}

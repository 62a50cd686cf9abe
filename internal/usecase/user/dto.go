package user

import (
	"time"

	domainUser "account-rbac-service/internal/domain/user"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Email       string     `json:"email" validate:"required,email,max=254"`
	Password    string     `json:"password" validate:"required,min=8,max=72"`
	Name        string     `json:"name" validate:"omitempty,min=1,max=100"`
	PhoneNumber *string    `json:"phone_number" validate:"omitempty,phone"`
	AvatarURL   *string    `json:"avatar_url" validate:"omitempty,url,max=500"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *string    `json:"gender" validate:"omitempty,gender"`
	IsAdmin     bool       `json:"is_admin"`
}

type UpdateUserRequest struct {
	Name          *string    `json:"name" validate:"omitempty,min=1,max=100"`
	PhoneNumber   *string    `json:"phone_number" validate:"omitempty,phone"`
	AvatarURL     *string    `json:"avatar_url" validate:"omitempty,url,max=500"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	Gender        *string    `json:"gender" validate:"omitempty,gender"`
	IsAdmin       *bool      `json:"is_admin"`
	EmailVerified *bool      `json:"email_verified"`
	PhoneVerified *bool      `json:"phone_verified"`
	IsActive      *bool      `json:"is_active"`
}

// UpdateProfileRequest is the subset of fields a user may change on their own
// account.
type UpdateProfileRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=100"`
	PhoneNumber *string    `json:"phone_number" validate:"omitempty,phone"`
	AvatarURL   *string    `json:"avatar_url" validate:"omitempty,url,max=500"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      *string    `json:"gender" validate:"omitempty,gender"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type ListUsersRequest struct {
	Search         string `form:"search" validate:"omitempty,max=100"`
	IncludeDeleted bool   `form:"include_deleted"`
	Page           int    `form:"page" validate:"omitempty,min=1"`
	PageSize       int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	PhoneNumber   *string    `json:"phone_number"`
	AvatarURL     *string    `json:"avatar_url"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	Gender        *string    `json:"gender"`
	IsAdmin       bool       `json:"is_admin"`
	EmailVerified bool       `json:"email_verified"`
	PhoneVerified bool       `json:"phone_verified"`
	IsActive      bool       `json:"is_active"`
	IsDeleted     bool       `json:"is_deleted"`
	LastLoginAt   *time.Time `json:"last_login_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type UserListResponse struct {
	Users    []*UserResponse `json:"users"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}

	var gender *string
	if u.Gender != nil {
		g := string(*u.Gender)
		gender = &g
	}

	return &UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		PhoneNumber:   u.PhoneNumber,
		AvatarURL:     u.AvatarURL,
		DateOfBirth:   u.DateOfBirth,
		Gender:        gender,
		IsAdmin:       u.IsAdmin,
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		IsActive:      u.IsActive,
		IsDeleted:     u.IsDeleted,
		LastLoginAt:   u.LastLoginAt,
		DeletedAt:     u.DeletedAt,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

func toGender(value *string) *domainUser.Gender {
	if value == nil {
		return nil
	}
	g := domainUser.Gender(*value)
	return &g
}

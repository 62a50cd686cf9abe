package user

import (
	"time"

	"account-rbac-service/internal/domain/audit"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

const (
	DefaultName    = "Bạn"
	MaxEmailLength = 254
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// User represents a user account in the domain
type User struct {
	ID             uuid.UUID
	Email          string
	Name           string
	PasswordHashed string
	PhoneNumber    *string
	AvatarURL      *string
	DateOfBirth    *time.Time
	Gender         *Gender
	IsAdmin        bool
	EmailVerified  bool
	PhoneVerified  bool
	IsActive       bool
	LastLoginAt    *time.Time
	CreatorID      *uuid.UUID
	ModifierID     *uuid.UUID
	audit.SoftDelete
	audit.Timestamps
}

// CanAuthenticate reports whether the account may hold valid credentials.
func (u *User) CanAuthenticate() bool {
	return u.IsActive && !u.IsDeleted
}

// Update carries the mutable user fields; nil fields are left unchanged.
type Update struct {
	Name          *string
	PhoneNumber   *string
	AvatarURL     *string
	DateOfBirth   *time.Time
	Gender        *Gender
	IsAdmin       *bool
	EmailVerified *bool
	PhoneVerified *bool
	IsActive      *bool
	ModifierID    *uuid.UUID
}

// IsEmpty reports whether the update carries no field changes.
func (u Update) IsEmpty() bool {
	return u.Name == nil && u.PhoneNumber == nil && u.AvatarURL == nil &&
		u.DateOfBirth == nil && u.Gender == nil && u.IsAdmin == nil &&
		u.EmailVerified == nil && u.PhoneVerified == nil && u.IsActive == nil
}

// ListFilter selects users for listing
type ListFilter struct {
	IncludeDeleted bool
	Search         string
	Limit          int
	Offset         int
}

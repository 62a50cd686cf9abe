package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel represents the database model for User
type UserModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email          string     `gorm:"type:varchar(254);not null;uniqueIndex:idx_users_email"`
	Name           string     `gorm:"type:varchar(100);not null;default:'Bạn'"`
	PasswordHashed string     `gorm:"column:password;type:varchar(255);not null"`
	PhoneNumber    *string    `gorm:"type:varchar(15);index:idx_users_phone_number"`
	AvatarURL      *string    `gorm:"type:text"`
	DateOfBirth    *time.Time `gorm:"type:date"`
	Gender         *string    `gorm:"type:varchar(10);check:chk_users_gender,gender IN ('MALE','FEMALE','OTHER')"`
	IsAdmin        bool       `gorm:"not null;default:false"`
	EmailVerified  bool       `gorm:"not null;default:false"`
	PhoneVerified  bool       `gorm:"not null;default:false"`
	IsActive       bool       `gorm:"not null;index:idx_users_is_active"`
	IsDeleted      bool       `gorm:"not null;default:false;index:idx_users_is_deleted"`
	LastLoginAt    *time.Time
	CreatorID      *uuid.UUID `gorm:"type:uuid"`
	Creator        *UserModel `gorm:"foreignKey:CreatorID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	ModifierID     *uuid.UUID `gorm:"type:uuid"`
	Modifier       *UserModel `gorm:"foreignKey:ModifierID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	DeletedAt      *time.Time
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// AuditUpdate stamps last_login_at when email_verified flips from false to
// true. The CASE reads the pre-update column value, so re-verifying an already
// verified account keeps the existing stamp, or the value the update carries.
func (UserModel) AuditUpdate(set map[string]interface{}, now time.Time) {
	verified, ok := set["email_verified"].(bool)
	if !ok || !verified {
		return
	}
	if current, carried := set["last_login_at"]; carried {
		set["last_login_at"] = gorm.Expr(
			"CASE WHEN email_verified = ? THEN ? ELSE ? END", false, now, current)
		return
	}
	set["last_login_at"] = gorm.Expr(
		"CASE WHEN email_verified = ? THEN ? ELSE last_login_at END", false, now)
}

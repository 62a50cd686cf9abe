package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OtpTokenModel represents the database model for a one-time code
type OtpTokenModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID      *uuid.UUID `gorm:"type:uuid;index:idx_otp_tokens_user_id"`
	User        *UserModel `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Email       string     `gorm:"type:varchar(254);not null;index:idx_otp_tokens_lookup,priority:1"`
	PhoneNumber *string    `gorm:"type:varchar(15)"`
	OtpHash     string     `gorm:"type:varchar(255);not null"`
	TokenType   string     `gorm:"type:varchar(30);not null;index:idx_otp_tokens_lookup,priority:2;check:chk_otp_tokens_type,token_type IN ('REGISTRATION','LOGIN','EMAIL_VERIFICATION','PHONE_VERIFICATION','PASSWORD_RESET','TRANSACTION')"`
	IsUsed      bool       `gorm:"not null;default:false"`
	IsRevoked   bool       `gorm:"not null;default:false"`
	Attempts    int        `gorm:"not null;default:0;check:chk_otp_attempts,attempts <= max_attempts"`
	MaxAttempts int        `gorm:"not null;default:3"`
	IPAddress   *string    `gorm:"type:varchar(45)"`
	UserAgent   *string    `gorm:"type:text"`
	DeviceID    *string    `gorm:"type:varchar(255)"`
	ExpiresAt   time.Time  `gorm:"not null;index:idx_otp_tokens_expires_at"`
	UsedAt      *time.Time
	CreatedAt   time.Time `gorm:"not null"`
}

func (OtpTokenModel) TableName() string {
	return "otp_tokens"
}

func (m *OtpTokenModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

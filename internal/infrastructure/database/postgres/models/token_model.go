package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenModel represents the database model for an issued token
type TokenModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index:idx_user_tokens_user_id"`
	User       *UserModel `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	TokenType  string     `gorm:"type:varchar(30);not null;index:idx_user_tokens_token_type;check:chk_user_tokens_type,token_type IN ('ACCESS','REFRESH','API','RESET_PASSWORD','EMAIL_VERIFICATION')"`
	TokenHash  string     `gorm:"type:varchar(512);not null;uniqueIndex:idx_user_tokens_token_hash"`
	ExpiresAt  time.Time  `gorm:"not null;index:idx_user_tokens_expires_at"`
	IsRevoked  bool       `gorm:"not null;default:false;index:idx_user_tokens_is_revoked"`
	IPAddress  *string    `gorm:"type:varchar(45)"`
	UserAgent  *string    `gorm:"type:text"`
	DeviceInfo JSONMap    `gorm:"type:jsonb"`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
}

func (TokenModel) TableName() string {
	return "user_tokens"
}

func (m *TokenModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// AuditUpdate makes revocation one-way: only is_revoked = true is written.
func (TokenModel) AuditUpdate(set map[string]interface{}, _ time.Time) {
	if v, ok := set["is_revoked"]; ok {
		if revoked, isBool := v.(bool); !isBool || !revoked {
			delete(set, "is_revoked")
		}
	}
}

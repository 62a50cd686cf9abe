package token

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeAccess            Type = "ACCESS"
	TypeRefresh           Type = "REFRESH"
	TypeAPI               Type = "API"
	TypeResetPassword     Type = "RESET_PASSWORD"
	TypeEmailVerification Type = "EMAIL_VERIFICATION"
)

func (t Type) Valid() bool {
	switch t {
	case TypeAccess, TypeRefresh, TypeAPI, TypeResetPassword, TypeEmailVerification:
		return true
	}
	return false
}

// Token is an issued credential. Only its hash is stored.
type Token struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Type       Type
	TokenHash  string
	ExpiresAt  time.Time
	IsRevoked  bool
	IPAddress  *string
	UserAgent  *string
	DeviceInfo map[string]interface{}
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsExpired checks if the token is past its expiry at now
func (t *Token) IsExpired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}

// IsValid checks if the token is not revoked and not expired
func (t *Token) IsValid(now time.Time) bool {
	return !t.IsRevoked && !t.IsExpired(now)
}

// Check returns the reason the token is unusable, or nil.
func (t *Token) Check(now time.Time) error {
	switch {
	case t.IsRevoked:
		return ErrTokenRevoked
	case t.IsExpired(now):
		return ErrTokenExpired
	}
	return nil
}

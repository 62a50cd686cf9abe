package token

import (
	"time"

	"github.com/google/uuid"
)

type OtpType string

const (
	OtpRegistration      OtpType = "REGISTRATION"
	OtpLogin             OtpType = "LOGIN"
	OtpEmailVerification OtpType = "EMAIL_VERIFICATION"
	OtpPhoneVerification OtpType = "PHONE_VERIFICATION"
	OtpPasswordReset     OtpType = "PASSWORD_RESET"
	OtpTransaction       OtpType = "TRANSACTION"
)

const DefaultMaxAttempts = 3

func (t OtpType) Valid() bool {
	switch t {
	case OtpRegistration, OtpLogin, OtpEmailVerification,
		OtpPhoneVerification, OtpPasswordReset, OtpTransaction:
		return true
	}
	return false
}

// OtpToken is a one-time code bound to an email and/or phone number. UserID
// is nil for flows that run before an account exists.
type OtpToken struct {
	ID          uuid.UUID
	UserID      *uuid.UUID
	Email       string
	PhoneNumber *string
	OtpHash     string
	Type        OtpType
	IsUsed      bool
	IsRevoked   bool
	Attempts    int
	MaxAttempts int
	IPAddress   *string
	UserAgent   *string
	DeviceID    *string
	ExpiresAt   time.Time
	UsedAt      *time.Time
	CreatedAt   time.Time
}

func (o *OtpToken) IsExpired(now time.Time) bool {
	return !o.ExpiresAt.After(now)
}

// RemainingAttempts is the number of attempts left before the code locks.
func (o *OtpToken) RemainingAttempts() int {
	if o.Attempts >= o.MaxAttempts {
		return 0
	}
	return o.MaxAttempts - o.Attempts
}

// IsUsable reports ¬used ∧ ¬revoked ∧ attempts < max ∧ not expired.
func (o *OtpToken) IsUsable(now time.Time) bool {
	return o.Check(now) == nil
}

// Check returns the reason the code cannot be used, or nil.
func (o *OtpToken) Check(now time.Time) error {
	switch {
	case o.IsUsed:
		return ErrOtpAlreadyUsed
	case o.IsRevoked:
		return ErrOtpRevoked
	case o.Attempts >= o.MaxAttempts:
		return ErrOtpAttemptsExceeded
	case o.IsExpired(now):
		return ErrOtpExpired
	}
	return nil
}

// OtpLookup selects the outstanding code for a recipient and purpose.
type OtpLookup struct {
	Email       string
	PhoneNumber *string
	Type        OtpType
}

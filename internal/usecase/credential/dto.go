package credential

import (
	"time"

	domainToken "account-rbac-service/internal/domain/token"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type IssueTokenRequest struct {
	Type       string                 `json:"type" validate:"required,token_type"`
	TTL        time.Duration          `json:"-"`
	IPAddress  *string                `json:"-"`
	UserAgent  *string                `json:"-"`
	DeviceInfo map[string]interface{} `json:"device_info"`
}

type RequestOtpRequest struct {
	Email       string  `json:"email" validate:"required,email,max=254"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,phone"`
	Type        string  `json:"type" validate:"required,otp_type"`
	DeviceID    *string `json:"device_id" validate:"omitempty,max=255"`
	IPAddress   *string `json:"-"`
	UserAgent   *string `json:"-"`
}

type VerifyOtpRequest struct {
	Email       string  `json:"email" validate:"required,email,max=254"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,phone"`
	Type        string  `json:"type" validate:"required,otp_type"`
	Code        string  `json:"code" validate:"required,numeric,min=4,max=10"`
}

// Principal is the authenticated caller behind a bearer token.
type Principal struct {
	UserID    uuid.UUID
	Email     string
	IsAdmin   bool
	TokenID   uuid.UUID
	TokenType domainToken.Type
}

type IssuedToken struct {
	Token     string    `json:"token"`
	TokenID   uuid.UUID `json:"token_id"`
	Type      string    `json:"type"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthResponse struct {
	UserID uuid.UUID    `json:"user_id"`
	Email  string       `json:"email"`
	Token  *IssuedToken `json:"token"`
}

type TokenResponse struct {
	ID         uuid.UUID              `json:"id"`
	Type       string                 `json:"type"`
	ExpiresAt  time.Time              `json:"expires_at"`
	IsRevoked  bool                   `json:"is_revoked"`
	IPAddress  *string                `json:"ip_address"`
	UserAgent  *string                `json:"user_agent"`
	DeviceInfo map[string]interface{} `json:"device_info,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// OtpChallenge is handed to the delivery channel. Code is the only place the
// plain code exists.
type OtpChallenge struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
	MaxAttempts int       `json:"max_attempts"`
}

type OtpResult struct {
	ID         uuid.UUID  `json:"id"`
	UserID     *uuid.UUID `json:"user_id"`
	Type       string     `json:"type"`
	VerifiedAt time.Time  `json:"verified_at"`
}

// SweepResult counts the credentials revoked by one expiry sweep.
type SweepResult struct {
	Tokens int64 `json:"tokens"`
	Otps   int64 `json:"otps"`
}

func ToTokenResponse(t *domainToken.Token) *TokenResponse {
	return &TokenResponse{
		ID:         t.ID,
		Type:       string(t.Type),
		ExpiresAt:  t.ExpiresAt,
		IsRevoked:  t.IsRevoked,
		IPAddress:  t.IPAddress,
		UserAgent:  t.UserAgent,
		DeviceInfo: t.DeviceInfo,
		CreatedAt:  t.CreatedAt,
	}
}

package token

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repository.go -destination=../../mocks/mock_token_repository.go -package=mocks -mock_names=Repository=MockTokenRepository,OtpRepository=MockOtpRepository

// Repository stores issued tokens (user_tokens).
type Repository interface {
	Create(ctx context.Context, token *Token) error
	GetByID(ctx context.Context, tokenID uuid.UUID) (*Token, error)
	GetByHash(ctx context.Context, tokenHash string) (*Token, error)
	ListByUser(ctx context.Context, userID uuid.UUID, validOnly bool) ([]*Token, error)
	// Revoke is one-way; revoking an already revoked token is a no-op.
	Revoke(ctx context.Context, tokenID uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	RevokeExpired(ctx context.Context, now time.Time) (int64, error)
}

// OtpRepository stores one-time codes (otp_tokens).
type OtpRepository interface {
	Create(ctx context.Context, otp *OtpToken) error
	GetByID(ctx context.Context, otpID uuid.UUID) (*OtpToken, error)
	// FindLatest returns the most recently created code matching lookup,
	// whatever its state.
	FindLatest(ctx context.Context, lookup OtpLookup) (*OtpToken, error)
	// RecordAttempt increments attempts and, on success, marks the code used.
	// The guard is evaluated against the incremented value in the same
	// statement; a rejected attempt persists nothing.
	RecordAttempt(ctx context.Context, otpID uuid.UUID, success bool) (*OtpToken, error)
	Revoke(ctx context.Context, otpID uuid.UUID) error
	RevokeOutstanding(ctx context.Context, lookup OtpLookup) (int64, error)
	RevokeExpired(ctx context.Context, now time.Time) (int64, error)
}

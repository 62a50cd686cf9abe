package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainToken "account-rbac-service/internal/domain/token"
	domainUser "account-rbac-service/internal/domain/user"
	"account-rbac-service/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OtpRepository implements domain.Token.OtpRepository interface
type OtpRepository struct {
	db *DB
}

// NewOtpRepository creates a new OTP repository
func NewOtpRepository(db *DB) domainToken.OtpRepository {
	return &OtpRepository{db: db}
}

func (r *OtpRepository) Create(ctx context.Context, o *domainToken.OtpToken) error {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = domainToken.DefaultMaxAttempts
	}

	dbModel := toOtpModel(o)
	if err := GetDB(ctx, r.db.DB).Create(dbModel).Error; err != nil {
		if isForeignKeyError(err) {
			return domainUser.ErrUserNotFound
		}
		return fmt.Errorf("failed to create otp: %w", err)
	}

	o.ID = dbModel.ID
	o.CreatedAt = dbModel.CreatedAt

	return nil
}

func (r *OtpRepository) GetByID(ctx context.Context, otpID uuid.UUID) (*domainToken.OtpToken, error) {
	var dbModel models.OtpTokenModel
	err := GetDB(ctx, r.db.DB).Where("id = ?", otpID).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainToken.ErrOtpNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get otp: %w", err)
	}

	return toOtpEntity(&dbModel), nil
}

func (r *OtpRepository) FindLatest(ctx context.Context, lookup domainToken.OtpLookup) (*domainToken.OtpToken, error) {
	var dbModel models.OtpTokenModel
	err := r.lookup(ctx, lookup).
		Order("created_at DESC").
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainToken.ErrOtpNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find otp: %w", err)
	}

	return toOtpEntity(&dbModel), nil
}

func (r *OtpRepository) lookup(ctx context.Context, lookup domainToken.OtpLookup) *gorm.DB {
	query := GetDB(ctx, r.db.DB).
		Model(&models.OtpTokenModel{}).
		Where("email = ? AND token_type = ?", lookup.Email, string(lookup.Type))
	if lookup.PhoneNumber != nil {
		query = query.Where("phone_number = ?", *lookup.PhoneNumber)
	}
	return query
}

// RecordAttempt is a single conditional UPDATE guarded by the full usability
// rule. Concurrent attempts are serialized by the row lock; the loser
// re-evaluates the guard against the committed row and is rejected.
func (r *OtpRepository) RecordAttempt(ctx context.Context, otpID uuid.UUID, success bool) (*domainToken.OtpToken, error) {
	now := r.db.NowFunc()
	set := map[string]interface{}{
		"attempts": gorm.Expr("attempts + ?", 1),
	}
	if success {
		set["is_used"] = true
		set["used_at"] = now
	}

	result := GetDB(ctx, r.db.DB).
		Model(&models.OtpTokenModel{}).
		Where("id = ? AND is_used = ? AND is_revoked = ? AND attempts + 1 <= max_attempts AND expires_at > ?",
			otpID, false, false, now).
		Updates(set)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to record otp attempt: %w", result.Error)
	}

	current, err := r.GetByID(ctx, otpID)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected == 0 {
		if err := current.Check(now); err != nil {
			return current, err
		}
		return current, domainToken.ErrOtpAttemptsExceeded
	}

	return current, nil
}

func (r *OtpRepository) Revoke(ctx context.Context, otpID uuid.UUID) error {
	result := GetDB(ctx, r.db.DB).
		Model(&models.OtpTokenModel{}).
		Where("id = ?", otpID).
		Update("is_revoked", true)

	if result.Error != nil {
		return fmt.Errorf("failed to revoke otp: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainToken.ErrOtpNotFound
	}

	return nil
}

// RevokeOutstanding revokes every unused, unrevoked code matching lookup.
func (r *OtpRepository) RevokeOutstanding(ctx context.Context, lookup domainToken.OtpLookup) (int64, error) {
	result := r.lookup(ctx, lookup).
		Where("is_used = ? AND is_revoked = ?", false, false).
		Update("is_revoked", true)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to revoke outstanding otps: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *OtpRepository) RevokeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := GetDB(ctx, r.db.DB).
		Model(&models.OtpTokenModel{}).
		Where("is_used = ? AND is_revoked = ? AND expires_at <= ?", false, false, now).
		Update("is_revoked", true)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to revoke expired otps: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func toOtpModel(o *domainToken.OtpToken) *models.OtpTokenModel {
	return &models.OtpTokenModel{
		ID:          o.ID,
		UserID:      o.UserID,
		Email:       o.Email,
		PhoneNumber: o.PhoneNumber,
		OtpHash:     o.OtpHash,
		TokenType:   string(o.Type),
		IsUsed:      o.IsUsed,
		IsRevoked:   o.IsRevoked,
		Attempts:    o.Attempts,
		MaxAttempts: o.MaxAttempts,
		IPAddress:   o.IPAddress,
		UserAgent:   o.UserAgent,
		DeviceID:    o.DeviceID,
		ExpiresAt:   o.ExpiresAt,
		UsedAt:      o.UsedAt,
	}
}

func toOtpEntity(m *models.OtpTokenModel) *domainToken.OtpToken {
	return &domainToken.OtpToken{
		ID:          m.ID,
		UserID:      m.UserID,
		Email:       m.Email,
		PhoneNumber: m.PhoneNumber,
		OtpHash:     m.OtpHash,
		Type:        domainToken.OtpType(m.TokenType),
		IsUsed:      m.IsUsed,
		IsRevoked:   m.IsRevoked,
		Attempts:    m.Attempts,
		MaxAttempts: m.MaxAttempts,
		IPAddress:   m.IPAddress,
		UserAgent:   m.UserAgent,
		DeviceID:    m.DeviceID,
		ExpiresAt:   m.ExpiresAt,
		UsedAt:      m.UsedAt,
		CreatedAt:   m.CreatedAt,
	}
}

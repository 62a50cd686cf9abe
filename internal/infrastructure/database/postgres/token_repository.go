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

// TokenRepository implements domain.Token.Repository interface
type TokenRepository struct {
	db *DB
}

// NewTokenRepository creates a new token repository
func NewTokenRepository(db *DB) domainToken.Repository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Create(ctx context.Context, t *domainToken.Token) error {
	dbModel := toTokenModel(t)
	if err := GetDB(ctx, r.db.DB).Create(dbModel).Error; err != nil {
		switch {
		case isDuplicateKeyError(err):
			return domainToken.ErrDuplicateToken
		case isForeignKeyError(err):
			return domainUser.ErrUserNotFound
		}
		return fmt.Errorf("failed to create token: %w", err)
	}

	t.ID = dbModel.ID
	t.CreatedAt = dbModel.CreatedAt
	t.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *TokenRepository) GetByID(ctx context.Context, tokenID uuid.UUID) (*domainToken.Token, error) {
	return r.first(ctx, "id = ?", tokenID)
}

func (r *TokenRepository) GetByHash(ctx context.Context, tokenHash string) (*domainToken.Token, error) {
	return r.first(ctx, "token_hash = ?", tokenHash)
}

func (r *TokenRepository) first(ctx context.Context, query string, args ...interface{}) (*domainToken.Token, error) {
	var dbModel models.TokenModel
	err := GetDB(ctx, r.db.DB).Where(query, args...).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainToken.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return toTokenEntity(&dbModel), nil
}

func (r *TokenRepository) ListByUser(ctx context.Context, userID uuid.UUID, validOnly bool) ([]*domainToken.Token, error) {
	query := GetDB(ctx, r.db.DB).Where("user_id = ?", userID)
	if validOnly {
		query = query.Where("is_revoked = ? AND expires_at > ?", false, r.db.NowFunc())
	}

	var dbModels []models.TokenModel
	if err := query.Order("created_at DESC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}

	tokens := make([]*domainToken.Token, 0, len(dbModels))
	for i := range dbModels {
		tokens = append(tokens, toTokenEntity(&dbModels[i]))
	}

	return tokens, nil
}

func (r *TokenRepository) Revoke(ctx context.Context, tokenID uuid.UUID) error {
	result := GetDB(ctx, r.db.DB).
		Model(&models.TokenModel{}).
		Where("id = ?", tokenID).
		Update("is_revoked", true)

	if result.Error != nil {
		return fmt.Errorf("failed to revoke token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainToken.ErrTokenNotFound
	}

	return nil
}

func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := GetDB(ctx, r.db.DB).
		Model(&models.TokenModel{}).
		Where("user_id = ? AND is_revoked = ?", userID, false).
		Update("is_revoked", true)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to revoke user tokens: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// RevokeExpired marks tokens expired at now as revoked. Rows are kept.
func (r *TokenRepository) RevokeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := GetDB(ctx, r.db.DB).
		Model(&models.TokenModel{}).
		Where("is_revoked = ? AND expires_at <= ?", false, now).
		Update("is_revoked", true)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to revoke expired tokens: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func toTokenModel(t *domainToken.Token) *models.TokenModel {
	return &models.TokenModel{
		ID:         t.ID,
		UserID:     t.UserID,
		TokenType:  string(t.Type),
		TokenHash:  t.TokenHash,
		ExpiresAt:  t.ExpiresAt,
		IsRevoked:  t.IsRevoked,
		IPAddress:  t.IPAddress,
		UserAgent:  t.UserAgent,
		DeviceInfo: models.JSONMap(t.DeviceInfo),
	}
}

func toTokenEntity(m *models.TokenModel) *domainToken.Token {
	return &domainToken.Token{
		ID:         m.ID,
		UserID:     m.UserID,
		Type:       domainToken.Type(m.TokenType),
		TokenHash:  m.TokenHash,
		ExpiresAt:  m.ExpiresAt,
		IsRevoked:  m.IsRevoked,
		IPAddress:  m.IPAddress,
		UserAgent:  m.UserAgent,
		DeviceInfo: map[string]interface{}(m.DeviceInfo),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	domainUser "account-rbac-service/internal/domain/user"
	"account-rbac-service/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository implements domain.User.Repository interface
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) domainUser.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domainUser.User) error {
	if u.Name == "" {
		u.Name = domainUser.DefaultName
	}

	dbModel := toUserModel(u)
	if err := GetDB(ctx, r.db.DB).Create(dbModel).Error; err != nil {
		if isDuplicateKeyError(err) {
			return domainUser.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = dbModel.ID
	u.CreatedAt = dbModel.CreatedAt
	u.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domainUser.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := GetDB(ctx, r.db.DB).Where(query, args...).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) List(ctx context.Context, filter domainUser.ListFilter) ([]*domainUser.User, int64, error) {
	query := GetDB(ctx, r.db.DB).Model(&models.UserModel{})

	if !filter.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("email LIKE ? OR name LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var dbModels []models.UserModel
	if err := query.Order("created_at DESC, email").Find(&dbModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*domainUser.User, 0, len(dbModels))
	for i := range dbModels {
		users = append(users, toUserEntity(&dbModels[i]))
	}

	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, userID uuid.UUID, update domainUser.Update) (*domainUser.User, error) {
	set := map[string]interface{}{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.PhoneNumber != nil {
		set["phone_number"] = *update.PhoneNumber
	}
	if update.AvatarURL != nil {
		set["avatar_url"] = *update.AvatarURL
	}
	if update.DateOfBirth != nil {
		set["date_of_birth"] = *update.DateOfBirth
	}
	if update.Gender != nil {
		set["gender"] = string(*update.Gender)
	}
	if update.IsAdmin != nil {
		set["is_admin"] = *update.IsAdmin
	}
	if update.EmailVerified != nil {
		set["email_verified"] = *update.EmailVerified
	}
	if update.PhoneVerified != nil {
		set["phone_verified"] = *update.PhoneVerified
	}
	if update.IsActive != nil {
		set["is_active"] = *update.IsActive
	}

	if len(set) == 0 {
		return r.GetByID(ctx, userID)
	}
	withModifier(set, update.ModifierID)

	if err := r.updates(ctx, userID, set); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, userID)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, modifierID *uuid.UUID) error {
	set := map[string]interface{}{"password": passwordHash}
	withModifier(set, modifierID)
	return r.updates(ctx, userID, set)
}

func (r *UserRepository) SoftDelete(ctx context.Context, userID uuid.UUID, modifierID *uuid.UUID) error {
	return r.setDeleted(ctx, userID, true, modifierID)
}

func (r *UserRepository) Restore(ctx context.Context, userID uuid.UUID, modifierID *uuid.UUID) error {
	return r.setDeleted(ctx, userID, false, modifierID)
}

// setDeleted flips is_deleted only when it differs, so deleted_at keeps the
// time of the original deletion.
func (r *UserRepository) setDeleted(ctx context.Context, userID uuid.UUID, deleted bool, modifierID *uuid.UUID) error {
	set := map[string]interface{}{"is_deleted": deleted}
	withModifier(set, modifierID)

	result := GetDB(ctx, r.db.DB).
		Model(&models.UserModel{}).
		Where("id = ? AND is_deleted = ?", userID, !deleted).
		Updates(set)

	if result.Error != nil {
		return fmt.Errorf("failed to update user deletion state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		_, err := r.GetByID(ctx, userID)
		return err
	}

	return nil
}

// Purge physically removes the user. Tokens and role links go with it, OTPs
// and audit references are detached.
func (r *UserRepository) Purge(ctx context.Context, userID uuid.UUID) error {
	result := GetDB(ctx, r.db.DB).
		Where("id = ?", userID).
		Delete(&models.UserModel{})

	if result.Error != nil {
		return fmt.Errorf("failed to purge user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) updates(ctx context.Context, userID uuid.UUID, set map[string]interface{}) error {
	result := GetDB(ctx, r.db.DB).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(set)

	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainUser.ErrUserNotFound
	}

	return nil
}

// withModifier records who made the change when known.
func withModifier(set map[string]interface{}, modifierID *uuid.UUID) {
	if modifierID != nil {
		set["modifier_id"] = *modifierID
	}
}

func toUserModel(u *domainUser.User) *models.UserModel {
	var gender *string
	if u.Gender != nil {
		g := string(*u.Gender)
		gender = &g
	}

	return &models.UserModel{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		PasswordHashed: u.PasswordHashed,
		PhoneNumber:    u.PhoneNumber,
		AvatarURL:      u.AvatarURL,
		DateOfBirth:    u.DateOfBirth,
		Gender:         gender,
		IsAdmin:        u.IsAdmin,
		EmailVerified:  u.EmailVerified,
		PhoneVerified:  u.PhoneVerified,
		IsActive:       u.IsActive,
		IsDeleted:      u.IsDeleted,
		LastLoginAt:    u.LastLoginAt,
		CreatorID:      u.CreatorID,
		ModifierID:     u.ModifierID,
		DeletedAt:      u.DeletedAt,
	}
}

func toUserEntity(m *models.UserModel) *domainUser.User {
	var gender *domainUser.Gender
	if m.Gender != nil {
		g := domainUser.Gender(*m.Gender)
		gender = &g
	}

	u := &domainUser.User{
		ID:             m.ID,
		Email:          m.Email,
		Name:           m.Name,
		PasswordHashed: m.PasswordHashed,
		PhoneNumber:    m.PhoneNumber,
		AvatarURL:      m.AvatarURL,
		DateOfBirth:    m.DateOfBirth,
		Gender:         gender,
		IsAdmin:        m.IsAdmin,
		EmailVerified:  m.EmailVerified,
		PhoneVerified:  m.PhoneVerified,
		IsActive:       m.IsActive,
		LastLoginAt:    m.LastLoginAt,
		CreatorID:      m.CreatorID,
		ModifierID:     m.ModifierID,
	}
	u.IsDeleted = m.IsDeleted
	u.DeletedAt = m.DeletedAt
	u.CreatedAt = m.CreatedAt
	u.UpdatedAt = m.UpdatedAt

	return u
}

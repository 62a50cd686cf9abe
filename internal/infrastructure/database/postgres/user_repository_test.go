package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"account-rbac-service/internal/domain/rbac"
	domainToken "account-rbac-service/internal/domain/token"
	domainUser "account-rbac-service/internal/domain/user"
	"account-rbac-service/internal/infrastructure/database/postgres/models"
	appErrors "account-rbac-service/pkg/errors"
)

func domainUserUpdate(emailVerified *bool, name *string) domainUser.Update {
	return domainUser.Update{EmailVerified: emailVerified, Name: name}
}

func TestUserRepository_CreateDefaults(t *testing.T) {
	db, clock := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &domainUser.User{Email: "defaults@example.com", PasswordHashed: "hash", IsActive: true}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != domainUser.DefaultName {
		t.Errorf("name = %q, want %q", got.Name, domainUser.DefaultName)
	}
	if !got.CreatedAt.Equal(clock.Now()) || !got.UpdatedAt.Equal(clock.Now()) {
		t.Errorf("timestamps = %v/%v, want %v", got.CreatedAt, got.UpdatedAt, clock.Now())
	}
	if got.IsDeleted || got.DeletedAt != nil {
		t.Error("new user must not be deleted")
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db, _ := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	first := createTestUser(t, db, "dup@example.com")

	second := &domainUser.User{Email: "dup@example.com", Name: "Other", PasswordHashed: "other", IsActive: true}
	err := repo.Create(ctx, second)
	if !errors.Is(err, domainUser.ErrEmailTaken) || !errors.Is(err, appErrors.ErrDuplicateKey) {
		t.Fatalf("Create() error = %v, want duplicate key", err)
	}

	got, err := repo.GetByEmail(ctx, "dup@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != first.ID || got.Name != "Test User" {
		t.Fatalf("first row changed: %+v", got)
	}
}

func TestUserRepository_EmailIsCaseSensitive(t *testing.T) {
	db, _ := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "Case@example.com")

	if _, err := repo.GetByEmail(ctx, "case@example.com"); !errors.Is(err, domainUser.ErrUserNotFound) {
		t.Fatalf("GetByEmail() error = %v, want not found", err)
	}
	if err := repo.Create(ctx, &domainUser.User{Email: "case@example.com", PasswordHashed: "h", IsActive: true}); err != nil {
		t.Fatalf("Create() differing only in case error = %v", err)
	}
}

func TestUserRepository_SoftDeleteAndRestore(t *testing.T) {
	db, clock := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	admin := createTestUser(t, db, "admin@example.com")
	u := createTestUser(t, db, "gone@example.com")

	clock.Advance(time.Hour)
	deletedAt := clock.Now()
	if err := repo.SoftDelete(ctx, u.ID, &admin.ID); err != nil {
		t.Fatalf("SoftDelete() error = %v", err)
	}

	// A second delete keeps the original deletion time.
	clock.Advance(time.Hour)
	if err := repo.SoftDelete(ctx, u.ID, &admin.ID); err != nil {
		t.Fatalf("SoftDelete() again error = %v", err)
	}

	got, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !got.IsDeleted || got.DeletedAt == nil || !got.DeletedAt.Equal(deletedAt) {
		t.Fatalf("deleted state = %v/%v, want deleted at %v", got.IsDeleted, got.DeletedAt, deletedAt)
	}
	if got.ModifierID == nil || *got.ModifierID != admin.ID {
		t.Errorf("modifier_id = %v, want %v", got.ModifierID, admin.ID)
	}

	users, total, err := repo.List(ctx, domainUser.ListFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 1 || len(users) != 1 || users[0].ID != admin.ID {
		t.Fatalf("List() = %d users (total %d), want only the admin", len(users), total)
	}

	if err := repo.Restore(ctx, u.ID, &admin.ID); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	got, _ = repo.GetByID(ctx, u.ID)
	if got.IsDeleted || got.DeletedAt != nil {
		t.Fatalf("restored user state = %v/%v", got.IsDeleted, got.DeletedAt)
	}

	if err := repo.SoftDelete(ctx, domainUser.User{}.ID, nil); !errors.Is(err, domainUser.ErrUserNotFound) {
		t.Fatalf("SoftDelete(missing) error = %v, want not found", err)
	}
}

func TestUserRepository_ListSearchAndPaging(t *testing.T) {
	db, clock := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	for _, email := range []string{"anna@example.com", "bob@example.com", "anders@example.com"} {
		createTestUser(t, db, email)
		clock.Advance(time.Minute)
	}

	users, total, err := repo.List(ctx, domainUser.ListFilter{Search: "an", Limit: 1})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if len(users) != 1 || users[0].Email != "anders@example.com" {
		t.Fatalf("first page = %+v, want newest match", users)
	}
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db, _ := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := createTestUser(t, db, "pw@example.com")
	if err := repo.UpdatePassword(ctx, u.ID, "new-hash", nil); err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}
	got, _ := repo.GetByID(ctx, u.ID)
	if got.PasswordHashed != "new-hash" {
		t.Fatalf("password = %q", got.PasswordHashed)
	}
}

func TestUserRepository_PurgeCascades(t *testing.T) {
	db, clock := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	u := createTestUser(t, db, "purge@example.com")

	tok := &domainToken.Token{UserID: u.ID, Type: domainToken.TypeAccess, TokenHash: "hash-1", ExpiresAt: clock.Now().Add(time.Hour)}
	if err := NewTokenRepository(db).Create(ctx, tok); err != nil {
		t.Fatalf("token Create() error = %v", err)
	}
	otp := &domainToken.OtpToken{UserID: &u.ID, Email: u.Email, OtpHash: "otp", Type: domainToken.OtpLogin, ExpiresAt: clock.Now().Add(time.Minute)}
	if err := NewOtpRepository(db).Create(ctx, otp); err != nil {
		t.Fatalf("otp Create() error = %v", err)
	}
	role := &rbac.Role{Name: "Auditor", Code: "AUDITOR", IsActive: true, CreatorID: &u.ID}
	if err := NewRoleRepository(db).Create(ctx, role); err != nil {
		t.Fatalf("role Create() error = %v", err)
	}
	if _, err := NewAssignmentRepository(db).AssignRole(ctx, u.ID, role.ID); err != nil {
		t.Fatalf("AssignRole() error = %v", err)
	}

	if err := users.Purge(ctx, u.ID); err != nil {
		t.Fatalf("Purge() error = %v", err)
	}

	if _, err := users.GetByID(ctx, u.ID); !errors.Is(err, domainUser.ErrUserNotFound) {
		t.Fatalf("GetByID() after purge error = %v", err)
	}

	var count int64
	db.Model(&models.TokenModel{}).Where("user_id = ?", u.ID).Count(&count)
	if count != 0 {
		t.Errorf("tokens left = %d, want cascade delete", count)
	}
	db.Model(&models.UserRoleModel{}).Where("user_id = ?", u.ID).Count(&count)
	if count != 0 {
		t.Errorf("user roles left = %d, want cascade delete", count)
	}

	keptOtp, err := NewOtpRepository(db).GetByID(ctx, otp.ID)
	if err != nil {
		t.Fatalf("otp must be kept: %v", err)
	}
	if keptOtp.UserID != nil {
		t.Errorf("otp user_id = %v, want null", keptOtp.UserID)
	}

	keptRole, err := NewRoleRepository(db).GetByID(ctx, role.ID)
	if err != nil {
		t.Fatalf("role must be kept: %v", err)
	}
	if keptRole.CreatorID != nil {
		t.Errorf("role creator_id = %v, want null", keptRole.CreatorID)
	}

	if err := users.Purge(ctx, u.ID); !errors.Is(err, domainUser.ErrUserNotFound) {
		t.Fatalf("second Purge() error = %v, want not found", err)
	}
}

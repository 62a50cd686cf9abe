package user

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repository.go -destination=../../mocks/mock_user_repository.go -package=mocks -mock_names=Repository=MockUserRepository

// Repository defines the interface for user repository operations
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter ListFilter) ([]*User, int64, error)
	Update(ctx context.Context, userID uuid.UUID, update Update) (*User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string, modifierID *uuid.UUID) error
	SoftDelete(ctx context.Context, userID uuid.UUID, modifierID *uuid.UUID) error
	Restore(ctx context.Context, userID uuid.UUID, modifierID *uuid.UUID) error
	// Purge physically removes the user; dependent rows follow the schema's
	// cascade rules.
	Purge(ctx context.Context, userID uuid.UUID) error
}

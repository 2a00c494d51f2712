package staff

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// Repository contains the DB interactions needed for staff accounts.
type Repository interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, u User) (*User, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role Role) (*User, error)
	SetTwoFactorEnabled(ctx context.Context, id uuid.UUID, enabled bool) (*User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]User, error)
}

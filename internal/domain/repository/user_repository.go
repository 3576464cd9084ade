package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/festronix-auth/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("duplicate email")
	// ErrDuplicateMobile is reported by the store's unique index on mobile.
	ErrDuplicateMobile = errors.New("duplicate mobile")
)

// UserRepository defines the credential store operations.
// Emails passed in are already normalized by the caller.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfileImage(ctx context.Context, id, url string) error
}

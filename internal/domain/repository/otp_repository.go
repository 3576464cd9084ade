package repository

import (
	"context"
	"time"

	"github.com/oksasatya/festronix-auth/internal/domain/entity"
)

// OTPStore holds pending OTP entries. Get returns (nil, nil) when absent.
type OTPStore interface {
	Put(ctx context.Context, e entity.OTPEntry) error
	Get(ctx context.Context, email string) (*entity.OTPEntry, error)
	Delete(ctx context.Context, email string) error
	// Take removes the entry and returns it in one step; (nil, nil) when absent.
	Take(ctx context.Context, email string) (*entity.OTPEntry, error)
	// Sweep drops entries that expired before the cutoff and returns how many were removed.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)
}

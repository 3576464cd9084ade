package otpstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/oksasatya/festronix-auth/internal/domain/entity"
	"github.com/oksasatya/festronix-auth/internal/domain/repository"
	"github.com/oksasatya/festronix-auth/pkg/helpers"
)

const keyPrefix = "otp:"

// Redis stores entries as JSON. The key outlives ExpiresAt by Grace so a late
// verify still sees the entry and reports it expired instead of missing.
type Redis struct {
	rdb   redis.Cmdable
	Grace time.Duration
	now   func() time.Time
}

func NewRedis(rdb redis.Cmdable, grace time.Duration) *Redis {
	return &Redis{rdb: rdb, Grace: grace, now: time.Now}
}

func key(email string) string { return keyPrefix + email }

func (r *Redis) Put(ctx context.Context, e entity.OTPEntry) error {
	if err := helpers.RedisSetJSON(ctx, r.rdb, key(e.Email), e, r.ttlFor(e)); err != nil {
		return oops.Code("OTP_STORE_PUT_FAILED").With("email", e.Email).Wrap(err)
	}
	return nil
}

func (r *Redis) ttlFor(e entity.OTPEntry) time.Duration {
	ttl := e.ExpiresAt.Sub(r.now()) + r.Grace
	if ttl <= 0 {
		return time.Second
	}
	return ttl
}

func (r *Redis) Get(ctx context.Context, email string) (*entity.OTPEntry, error) {
	var e entity.OTPEntry
	found, err := helpers.RedisGetJSON(ctx, r.rdb, key(email), &e)
	if err != nil {
		return nil, oops.Code("OTP_STORE_GET_FAILED").With("email", email).Wrap(err)
	}
	if !found {
		return nil, nil
	}
	return &e, nil
}

func (r *Redis) Delete(ctx context.Context, email string) error {
	if err := helpers.RedisDel(ctx, r.rdb, key(email)); err != nil {
		return oops.Code("OTP_STORE_DELETE_FAILED").With("email", email).Wrap(err)
	}
	return nil
}

func (r *Redis) Take(ctx context.Context, email string) (*entity.OTPEntry, error) {
	var e entity.OTPEntry
	found, err := helpers.RedisGetDelJSON(ctx, r.rdb, key(email), &e)
	if err != nil {
		return nil, oops.Code("OTP_STORE_TAKE_FAILED").With("email", email).Wrap(err)
	}
	if !found {
		return nil, nil
	}
	return &e, nil
}

// Sweep is a no-op; redis expires keys on its own.
func (r *Redis) Sweep(context.Context, time.Time) (int, error) { return 0, nil }

var _ repository.OTPStore = (*Redis)(nil)

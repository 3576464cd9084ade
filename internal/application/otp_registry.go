package application

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/festronix-auth/internal/domain/entity"
	"github.com/oksasatya/festronix-auth/internal/domain/repository"
	"github.com/oksasatya/festronix-auth/pkg/helpers"
)

type VerifyStatus string

const (
	StatusVerified VerifyStatus = "verified"
	StatusInvalid  VerifyStatus = "invalid"
	StatusExpired  VerifyStatus = "expired"
	StatusNotFound VerifyStatus = "not_found"
)

var verifyMessages = map[VerifyStatus]string{
	StatusVerified: "OTP verified",
	StatusInvalid:  "Invalid OTP",
	StatusExpired:  "OTP expired",
	StatusNotFound: "OTP not found",
}

type VerifyResult struct {
	Status  VerifyStatus
	Message string

	nonce string
}

func (r VerifyResult) OK() bool { return r.Status == StatusVerified }

func result(s VerifyStatus) VerifyResult {
	return VerifyResult{Status: s, Message: verifyMessages[s]}
}

// NormalizeEmail is the single key form used for users and OTP entries.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// OTPRegistry issues and checks one-time codes, one live entry per email.
type OTPRegistry struct {
	store  repository.OTPStore
	ttl    time.Duration
	now    func() time.Time
	codes  func() (string, error)
	nonces func() string
}

func NewOTPRegistry(store repository.OTPStore, ttl time.Duration) *OTPRegistry {
	return &OTPRegistry{
		store:  store,
		ttl:    ttl,
		now:    time.Now,
		codes:  helpers.GenOTPCode,
		nonces: uuid.NewString,
	}
}

// WithClock replaces the time source; tests drive expiry with it.
func (r *OTPRegistry) WithClock(now func() time.Time) *OTPRegistry {
	r.now = now
	return r
}

// Issue stores a fresh code for email, replacing any previous one.
func (r *OTPRegistry) Issue(ctx context.Context, email string) (entity.OTPEntry, error) {
	code, err := r.codes()
	if err != nil {
		return entity.OTPEntry{}, err
	}
	e := entity.OTPEntry{
		Email:     NormalizeEmail(email),
		Code:      code,
		ExpiresAt: r.now().Add(r.ttl),
	}
	if err := r.store.Put(ctx, e); err != nil {
		return entity.OTPEntry{}, err
	}
	return e, nil
}

// Verify checks code against the live entry. Expired entries are evicted;
// a mismatch leaves the entry in place. A match stays in place with a fresh
// reset nonce, replacing any nonce handed out by an earlier verify.
func (r *OTPRegistry) Verify(ctx context.Context, email, code string) (VerifyResult, error) {
	email = NormalizeEmail(email)
	e, err := r.store.Get(ctx, email)
	if err != nil {
		return VerifyResult{}, err
	}
	if e == nil {
		return result(StatusNotFound), nil
	}
	if e.Expired(r.now()) {
		if err := r.store.Delete(ctx, email); err != nil {
			return VerifyResult{}, err
		}
		return result(StatusExpired), nil
	}
	if subtle.ConstantTimeCompare([]byte(e.Code), []byte(strings.TrimSpace(code))) != 1 {
		return result(StatusInvalid), nil
	}
	e.ResetNonce = r.nonces()
	if err := r.store.Put(ctx, *e); err != nil {
		return VerifyResult{}, err
	}
	res := result(StatusVerified)
	res.nonce = e.ResetNonce
	return res, nil
}

// ConsumeReset spends the reset nonce issued by Verify. The entry is removed
// either way, so a nonce is accepted at most once.
func (r *OTPRegistry) ConsumeReset(ctx context.Context, email, nonce string) (bool, error) {
	e, err := r.store.Take(ctx, NormalizeEmail(email))
	if err != nil {
		return false, err
	}
	if e == nil || e.ResetNonce == "" || nonce == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(e.ResetNonce), []byte(nonce)) == 1, nil
}

func (r *OTPRegistry) Evict(ctx context.Context, email string) error {
	return r.store.Delete(ctx, NormalizeEmail(email))
}

// Sweep removes entries that expired more than grace ago.
func (r *OTPRegistry) Sweep(ctx context.Context, grace time.Duration) (int, error) {
	return r.store.Sweep(ctx, r.now().Add(-grace))
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *OTPRegistry) RunSweeper(ctx context.Context, interval, grace time.Duration, logger logrus.FieldLogger) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := r.Sweep(ctx, grace)
			if err != nil {
				helpers.LogError(logger, "otp sweep failed", err, nil)
				continue
			}
			if n > 0 && logger != nil {
				logger.WithField("removed", n).Debug("otp sweep")
			}
		}
	}
}

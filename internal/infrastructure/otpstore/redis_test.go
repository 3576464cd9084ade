package otpstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/festronix-auth/internal/domain/entity"
)

func TestRedis_TTLOutlivesExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRedis(nil, time.Hour)
	r.now = func() time.Time { return now }

	assert.Equal(t, time.Hour+5*time.Minute, r.ttlFor(entity.OTPEntry{ExpiresAt: now.Add(5 * time.Minute)}))
	assert.Equal(t, time.Second, r.ttlFor(entity.OTPEntry{ExpiresAt: now.Add(-2 * time.Hour)}))
}

func TestRedis_KeyPrefix(t *testing.T) {
	assert.Equal(t, "otp:a@x.io", key("a@x.io"))
}

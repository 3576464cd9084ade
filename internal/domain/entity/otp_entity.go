package entity

import "time"

// OTPEntry is one pending email challenge, keyed by normalized email.
type OTPEntry struct {
	Email     string    `json:"email"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	// ResetNonce is set once the code is verified and names the reset token that may spend it.
	ResetNonce string `json:"reset_nonce,omitempty"`
}

// Expired reports whether now is strictly past the expiry instant.
func (e OTPEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

package gateway

import (
	"context"
	"time"
)

// OTPMessage is everything a notifier needs to deliver a code.
type OTPMessage struct {
	To        string
	Name      string
	Code      string
	ExpiresAt time.Time
	IP        string
}

// Notifier delivers OTP codes to the user's mailbox.
type Notifier interface {
	SendOTP(ctx context.Context, msg OTPMessage) error
}

// ImageStore puts an object on an external asset host and returns its public URL.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

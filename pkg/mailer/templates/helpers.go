package templates

import (
	"time"

	"github.com/oksasatya/festronix-auth/internal/domain/gateway"
)

// Branding is the sender identity shown in every email.
type Branding struct {
	AppName  string
	FromName string
}

// NewOTPData fills the OTP template fields from a gateway message.
func NewOTPData(b Branding, msg gateway.OTPMessage) EmailData {
	exp := msg.ExpiresAt.UTC()
	minutes := int(time.Until(exp).Round(time.Minute) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return EmailData{
		Name:           msg.Name,
		Email:          msg.To,
		RecipientEmail: msg.To,
		Type:           OTP,
		AppName:        b.AppName,
		FromName:       b.FromName,
		Code:           msg.Code,
		ExpiresAt:      exp,
		ExpiresAtText:  exp.Format("02 January 2006, 15:04 MST"),
		ValidMinutes:   minutes,
		IP:             msg.IP,
	}
}

package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/festronix-auth/internal/domain/gateway"
	"github.com/oksasatya/festronix-auth/internal/domain/repository"
	"github.com/oksasatya/festronix-auth/pkg/apperror"
	"github.com/oksasatya/festronix-auth/pkg/helpers"
)

type OTPService struct {
	Users    repository.UserRepository
	Registry *OTPRegistry
	Notifier gateway.Notifier
	JWT      *helpers.JWTManager
	Logger   logrus.FieldLogger
}

func NewOTPService(users repository.UserRepository, reg *OTPRegistry, n gateway.Notifier, jwt *helpers.JWTManager, logger logrus.FieldLogger) *OTPService {
	return &OTPService{Users: users, Registry: reg, Notifier: n, JWT: jwt, Logger: logger}
}

type SendResult struct {
	Sent      bool
	Message   string
	ExpiresAt time.Time
}

// SendOTP issues a code for a registered email and hands it to the notifier.
// Unknown emails are a soft failure, not an error.
func (s *OTPService) SendOTP(ctx context.Context, email, ip string) (SendResult, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return SendResult{}, apperror.Validation("Email is required")
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return SendResult{Message: "Email not registered"}, nil
	}
	if err != nil {
		helpers.LogError(s.Logger, "otp user lookup failed", err, logrus.Fields{"email": email})
		return SendResult{}, apperror.Internal("Server error", err)
	}

	entry, err := s.Registry.Issue(ctx, email)
	if err != nil {
		helpers.LogError(s.Logger, "otp issue failed", err, logrus.Fields{"email": email})
		return SendResult{}, apperror.Internal("Server error", err)
	}
	err = s.Notifier.SendOTP(ctx, gateway.OTPMessage{
		To:        email,
		Name:      u.FullName(),
		Code:      entry.Code,
		ExpiresAt: entry.ExpiresAt,
		IP:        ip,
	})
	if err != nil {
		helpers.LogError(s.Logger, "otp delivery failed", err, logrus.Fields{"email": email})
		return SendResult{}, apperror.Delivery("OTP send failed", err)
	}
	return SendResult{Sent: true, Message: "OTP sent to email", ExpiresAt: entry.ExpiresAt}, nil
}

type VerifyOutcome struct {
	VerifyResult
	ResetToken string
}

// VerifyOTP checks the code; a verified code also yields a reset token.
func (s *OTPService) VerifyOTP(ctx context.Context, email, code string) (VerifyOutcome, error) {
	email = NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return VerifyOutcome{}, apperror.Validation("Email and OTP required")
	}
	res, err := s.Registry.Verify(ctx, email, code)
	if err != nil {
		helpers.LogError(s.Logger, "otp verify failed", err, logrus.Fields{"email": email})
		return VerifyOutcome{}, apperror.Internal("Server error", err)
	}
	out := VerifyOutcome{VerifyResult: res}
	if res.OK() && s.JWT != nil {
		tok, _, err := s.JWT.GenerateResetToken(email, res.nonce)
		if err != nil {
			return VerifyOutcome{}, apperror.Internal("Server error", err)
		}
		out.ResetToken = tok
	}
	return out, nil
}

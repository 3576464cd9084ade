package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/festronix-auth/internal/domain/entity"
	"github.com/oksasatya/festronix-auth/internal/domain/repository"
	"github.com/oksasatya/festronix-auth/pkg/apperror"
	"github.com/oksasatya/festronix-auth/pkg/helpers"
	"github.com/oksasatya/festronix-auth/pkg/validation"
)

const (
	msgAllFieldsRequired = "All fields required"
	msgUserExists        = "User already exists"
	msgMobileTaken       = "Mobile number already registered"
	msgUserNotFound      = "User not found"
	msgInvalidPassword   = "Invalid password"
	msgInvalidResetToken = "Invalid or expired reset token"
)

type AuthService struct {
	Users  repository.UserRepository
	JWT    *helpers.JWTManager
	OTP    *OTPRegistry
	Logger logrus.FieldLogger

	// RequireResetToken makes ResetPassword demand the token issued by VerifyOTP.
	RequireResetToken bool
	Redirect          string
}

func NewAuthService(users repository.UserRepository, jwt *helpers.JWTManager, otp *OTPRegistry, logger logrus.FieldLogger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, OTP: otp, Logger: logger}
}

type SignupInput struct {
	FirstName    string
	LastName     string
	Email        string
	Mobile       string
	Password     string
	ProfileImage string
}

func (in *SignupInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = NormalizeEmail(in.Email)
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.ProfileImage = strings.TrimSpace(in.ProfileImage)
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	in.normalize()
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Mobile == "" || in.Password == "" {
		return nil, apperror.Validation(msgAllFieldsRequired)
	}
	if !validation.IsEmail(in.Email) {
		return nil, apperror.Validation("email must be a valid email")
	}
	if !validation.IsMobile(in.Mobile) {
		return nil, apperror.Validation("mobile must be exactly 10 digits")
	}

	_, err := s.Users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, apperror.Conflict(msgUserExists, nil)
	case !errors.Is(err, repository.ErrNotFound):
		helpers.LogError(s.Logger, "signup lookup failed", err, logrus.Fields{"email": in.Email})
		return nil, apperror.Internal("Server error", err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal("Server error", err)
	}
	u := &entity.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Mobile:       in.Mobile,
		PasswordHash: hash,
		ProfileImage: in.ProfileImage,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, apperror.Conflict(msgUserExists, err)
		case errors.Is(err, repository.ErrDuplicateMobile):
			return nil, apperror.Conflict(msgMobileTaken, err)
		}
		helpers.LogError(s.Logger, "signup create failed", err, logrus.Fields{"email": in.Email})
		return nil, apperror.Internal("Server error", err)
	}
	helpers.LogInfo(s.Logger, "user signed up", logrus.Fields{"user_id": u.ID})
	return u, nil
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
	Redirect  string
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.Validation(msgAllFieldsRequired)
	}
	u, err := s.userByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, apperror.Authentication(msgInvalidPassword)
	}
	token, exp, err := s.JWT.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		helpers.LogError(s.Logger, "generate access token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, apperror.Internal("Server error", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u, Redirect: s.Redirect}, nil
}

type ResetInput struct {
	Email       string
	NewPassword string
	ResetToken  string
}

// ResetPassword overwrites the password hash and evicts the email's OTP entry.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetInput) error {
	email := NormalizeEmail(in.Email)
	if email == "" || in.NewPassword == "" {
		return apperror.Validation(msgAllFieldsRequired)
	}
	if s.RequireResetToken || in.ResetToken != "" {
		if err := s.spendResetToken(ctx, email, in.ResetToken); err != nil {
			return err
		}
	}
	u, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(in.NewPassword)
	if err != nil {
		return apperror.Internal("Server error", err)
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		helpers.LogError(s.Logger, "update password failed", err, logrus.Fields{"user_id": u.ID})
		return apperror.Internal("Server error", err)
	}
	if s.OTP != nil {
		if err := s.OTP.Evict(ctx, email); err != nil {
			helpers.LogError(s.Logger, "otp evict failed", err, logrus.Fields{"email": email})
		}
	}
	return nil
}

// spendResetToken accepts a reset token once: its id must match the nonce the
// OTP registry stored on verify, and the registry entry is consumed.
func (s *AuthService) spendResetToken(ctx context.Context, email, token string) error {
	claims, err := s.JWT.ParseResetToken(token)
	if err != nil || claims.Email != email || s.OTP == nil {
		return apperror.Authentication(msgInvalidResetToken)
	}
	ok, err := s.OTP.ConsumeReset(ctx, email, claims.ID)
	if err != nil {
		helpers.LogError(s.Logger, "reset token consume failed", err, logrus.Fields{"email": email})
		return apperror.Internal("Server error", err)
	}
	if !ok {
		return apperror.Authentication(msgInvalidResetToken)
	}
	return nil
}

func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, apperror.Internal("Server error", err)
	}
	return u, nil
}

func (s *AuthService) UpdateProfileImage(ctx context.Context, userID, url string) (*entity.User, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, apperror.Validation("Profile image required")
	}
	err := s.Users.UpdateProfileImage(ctx, userID, url)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(msgUserNotFound)
	}
	if err != nil {
		helpers.LogError(s.Logger, "update profile image failed", err, logrus.Fields{"user_id": userID})
		return nil, apperror.Internal("Server error", err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *AuthService) userByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Authentication(msgUserNotFound)
	}
	if err != nil {
		helpers.LogError(s.Logger, "user lookup failed", err, logrus.Fields{"email": email})
		return nil, apperror.Internal("Server error", err)
	}
	return u, nil
}

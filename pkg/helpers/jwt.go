package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	purposeAccess = "access"
	purposeReset  = "password_reset"
)

var ErrInvalidToken = errors.New("invalid token")

// JWTManager handles generation and validation of JWT tokens
type JWTManager struct {
	Secret    []byte
	AccessTTL time.Duration
	ResetTTL  time.Duration
	now       func() time.Time
}

func NewJWTManager(secret string, accessTTL, resetTTL time.Duration) *JWTManager {
	return &JWTManager{
		Secret:    []byte(secret),
		AccessTTL: accessTTL,
		ResetTTL:  resetTTL,
		now:       time.Now,
	}
}

type Claims struct {
	UserID  string `json:"uid,omitempty"`
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs the bearer token returned on login.
func (m *JWTManager) GenerateAccessToken(userID, email string) (string, time.Time, error) {
	return m.sign(&Claims{UserID: userID, Email: email, Purpose: purposeAccess}, m.AccessTTL)
}

// GenerateResetToken signs a short-lived proof that the OTP for email was verified.
// nonce becomes the token id; the OTP registry holds it until the token is spent.
func (m *JWTManager) GenerateResetToken(email, nonce string) (string, time.Time, error) {
	c := &Claims{Email: email, Purpose: purposeReset}
	c.ID = nonce
	return m.sign(c, m.ResetTTL)
}

func (m *JWTManager) sign(claims *Claims, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(ttl)
	claims.ExpiresAt = jwt.NewNumericDate(exp)
	claims.IssuedAt = jwt.NewNumericDate(now)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, purposeAccess)
}

// ParseResetToken returns the claims of a reset token; Email and ID are set.
func (m *JWTManager) ParseResetToken(tokenStr string) (*Claims, error) {
	c, err := m.parse(tokenStr, purposeReset)
	if err != nil {
		return nil, err
	}
	if c.ID == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}

func (m *JWTManager) parse(tokenStr, purpose string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.Purpose != purpose {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

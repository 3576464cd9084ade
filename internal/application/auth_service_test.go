package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/festronix-auth/internal/domain/repository"
	"github.com/oksasatya/festronix-auth/internal/infrastructure/otpstore"
	"github.com/oksasatya/festronix-auth/pkg/apperror"
	"github.com/oksasatya/festronix-auth/pkg/helpers"
)

func newAuth(t *testing.T) (*AuthService, *memUsers) {
	t.Helper()
	users := newMemUsers()
	jwt := helpers.NewJWTManager("test-secret", 24*time.Hour, 10*time.Minute)
	reg := NewOTPRegistry(otpstore.NewMemory(), 5*time.Minute)
	svc := NewAuthService(users, jwt, reg, nil)
	svc.Redirect = "dashboard.html"
	return svc, users
}

func aliceSignup() SignupInput {
	return SignupInput{
		FirstName: "Alice",
		LastName:  "Doe",
		Email:     " Alice@Example.com ",
		Mobile:    "9876543210",
		Password:  "s3cret!",
	}
}

func TestSignupThenLogin(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuth(t)

	u, err := svc.Signup(ctx, aliceSignup())
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEqual(t, "s3cret!", u.PasswordHash)

	res, err := svc.Login(ctx, "ALICE@example.com", "s3cret!")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "dashboard.html", res.Redirect)
	assert.Equal(t, "Alice", res.User.FirstName)

	claims, err := svc.JWT.ParseAccessToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), res.ExpiresAt, time.Minute)

	stored, _ := users.GetByID(ctx, u.ID)
	assert.Equal(t, u.PasswordHash, stored.PasswordHash)
}

func TestSignup_Validation(t *testing.T) {
	svc, _ := newAuth(t)
	tests := []struct {
		name   string
		mutate func(*SignupInput)
		msg    string
	}{
		{"missing first name", func(in *SignupInput) { in.FirstName = "  " }, "All fields required"},
		{"missing email", func(in *SignupInput) { in.Email = "" }, "All fields required"},
		{"missing password", func(in *SignupInput) { in.Password = "" }, "All fields required"},
		{"malformed email", func(in *SignupInput) { in.Email = "not-an-email" }, "email must be a valid email"},
		{"header injection", func(in *SignupInput) { in.Email = "a@x.io\r\nBcc: x@evil.io" }, "email must be a valid email"},
		{"short mobile", func(in *SignupInput) { in.Mobile = "12345" }, "mobile must be exactly 10 digits"},
		{"non digit mobile", func(in *SignupInput) { in.Mobile = "98765abcde" }, "mobile must be exactly 10 digits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := aliceSignup()
			tt.mutate(&in)
			_, err := svc.Signup(context.Background(), in)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.KindValidation))
			assert.Equal(t, tt.msg, apperror.Message(err))
		})
	}
}

func TestSignup_DuplicateEmailKeepsOriginal(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	_, err := svc.Signup(ctx, aliceSignup())
	require.NoError(t, err)

	dup := aliceSignup()
	dup.Email = "alice@EXAMPLE.com"
	dup.Mobile = "1112223333"
	dup.Password = "other"
	_, err = svc.Signup(ctx, dup)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, "User already exists", apperror.Message(err))

	_, err = svc.Login(ctx, "alice@example.com", "s3cret!")
	assert.NoError(t, err)
}

func TestSignup_LosingRaceIsConflict(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuth(t)
	_, err := svc.Signup(ctx, aliceSignup())
	require.NoError(t, err)

	users.staleLookup = true
	dup := aliceSignup()
	dup.Mobile = "1112223333"
	_, err = svc.Signup(ctx, dup)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, "User already exists", apperror.Message(err))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	assert.Len(t, users.byID, 1)
}

func TestSignup_DuplicateMobileFromStore(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	_, err := svc.Signup(ctx, aliceSignup())
	require.NoError(t, err)

	other := aliceSignup()
	other.Email = "bob@example.com"
	_, err = svc.Signup(ctx, other)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, "Mobile number already registered", apperror.Message(err))
}

func TestSignup_StoreFailureIsInternal(t *testing.T) {
	svc, users := newAuth(t)
	users.getErr = errStoreDown

	_, err := svc.Signup(context.Background(), aliceSignup())
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindInternal))
	assert.ErrorIs(t, err, errStoreDown)
}

func TestLogin_Failures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	_, err := svc.Signup(ctx, aliceSignup())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "nobody@example.com", "s3cret!")
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))
	assert.Equal(t, "User not found", apperror.Message(err))

	_, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))
	assert.Equal(t, "Invalid password", apperror.Message(err))

	_, err = svc.Login(ctx, "", "")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestResetPassword_ThenLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	_, err := svc.Signup(ctx, aliceSignup())
	require.NoError(t, err)
	_, err = svc.OTP.Issue(ctx, "alice@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, ResetInput{Email: "Alice@example.com", NewPassword: "n3w-pass"}))

	_, err = svc.Login(ctx, "alice@example.com", "n3w-pass")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "alice@example.com", "s3cret!")
	assert.Equal(t, "Invalid password", apperror.Message(err))

	res, err := svc.OTP.Verify(ctx, "alice@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, res.Status)
}

func TestResetPassword_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)

	err := svc.ResetPassword(ctx, ResetInput{Email: "a@x.io"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	err = svc.ResetPassword(ctx, ResetInput{Email: "ghost@x.io", NewPassword: "p"})
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))
	assert.Equal(t, "User not found", apperror.Message(err))
}

func TestResetPassword_RequiresToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	svc.RequireResetToken = true
	_, err := svc.Signup(ctx, aliceSignup())
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, ResetInput{Email: "alice@example.com", NewPassword: "n3w"})
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))

	tok := verifiedResetToken(t, svc, "alice@example.com")

	other, _, err := svc.JWT.GenerateResetToken("bob@example.com", "n-1")
	require.NoError(t, err)
	err = svc.ResetPassword(ctx, ResetInput{Email: "alice@example.com", NewPassword: "n3w", ResetToken: other})
	assert.Equal(t, "Invalid or expired reset token", apperror.Message(err))

	forged, _, err := svc.JWT.GenerateResetToken("alice@example.com", "not-the-nonce")
	require.NoError(t, err)
	err = svc.ResetPassword(ctx, ResetInput{Email: "alice@example.com", NewPassword: "n3w", ResetToken: forged})
	assert.Equal(t, "Invalid or expired reset token", apperror.Message(err))

	// the forged attempt spent the entry, so verify again
	tok = verifiedResetToken(t, svc, "alice@example.com")
	require.NoError(t, svc.ResetPassword(ctx, ResetInput{Email: "alice@example.com", NewPassword: "n3w", ResetToken: tok}))
}

func TestResetPassword_TokenIsSingleUse(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	svc.RequireResetToken = true
	_, err := svc.Signup(ctx, aliceSignup())
	require.NoError(t, err)

	tok := verifiedResetToken(t, svc, "alice@example.com")
	require.NoError(t, svc.ResetPassword(ctx, ResetInput{Email: "alice@example.com", NewPassword: "first-pass", ResetToken: tok}))

	err = svc.ResetPassword(ctx, ResetInput{Email: "alice@example.com", NewPassword: "second-pass", ResetToken: tok})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindAuthentication))
	assert.Equal(t, "Invalid or expired reset token", apperror.Message(err))

	_, err = svc.Login(ctx, "alice@example.com", "first-pass")
	assert.NoError(t, err)
	_, err = svc.Login(ctx, "alice@example.com", "second-pass")
	assert.Equal(t, "Invalid password", apperror.Message(err))
}

func TestResetPassword_EarlierTokenRevokedByNewVerify(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	_, err := svc.Signup(ctx, aliceSignup())
	require.NoError(t, err)

	e, err := svc.OTP.Issue(ctx, "alice@example.com")
	require.NoError(t, err)
	first, err := svc.OTP.Verify(ctx, "alice@example.com", e.Code)
	require.NoError(t, err)
	second, err := svc.OTP.Verify(ctx, "alice@example.com", e.Code)
	require.NoError(t, err)
	require.NotEqual(t, first.nonce, second.nonce)

	stale, _, err := svc.JWT.GenerateResetToken("alice@example.com", first.nonce)
	require.NoError(t, err)
	err = svc.ResetPassword(ctx, ResetInput{Email: "alice@example.com", NewPassword: "n3w", ResetToken: stale})
	assert.Equal(t, "Invalid or expired reset token", apperror.Message(err))
}

// verifiedResetToken runs issue and verify for email and signs the resulting nonce.
func verifiedResetToken(t *testing.T, svc *AuthService, email string) string {
	t.Helper()
	ctx := context.Background()
	e, err := svc.OTP.Issue(ctx, email)
	require.NoError(t, err)
	res, err := svc.OTP.Verify(ctx, email, e.Code)
	require.NoError(t, err)
	require.True(t, res.OK())
	tok, _, err := svc.JWT.GenerateResetToken(email, res.nonce)
	require.NoError(t, err)
	return tok
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)
	u, err := svc.Signup(ctx, aliceSignup())
	require.NoError(t, err)

	got, err := svc.UpdateProfileImage(ctx, u.ID, "https://cdn.example/festronix/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/festronix/a.png", got.ProfileImage)

	_, err = svc.UpdateProfileImage(ctx, u.ID, " ")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.GetProfile(ctx, "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

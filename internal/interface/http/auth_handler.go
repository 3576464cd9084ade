package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/festronix-auth/internal/application"
	"github.com/oksasatya/festronix-auth/internal/domain/entity"
	"github.com/oksasatya/festronix-auth/internal/interface/middleware"
	"github.com/oksasatya/festronix-auth/pkg/helpers"
	"github.com/oksasatya/festronix-auth/pkg/response"
)

type AuthHandler struct {
	Auth    *application.AuthService
	OTP     *application.OTPService
	Cookies *helpers.Manager
	Logger  logrus.FieldLogger
}

func NewAuthHandler(auth *application.AuthService, otp *application.OTPService, cookies *helpers.Manager, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{Auth: auth, OTP: otp, Cookies: cookies, Logger: logger}
}

type signupRequest struct {
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	Email        string `json:"email" binding:"required,mailbox"`
	Mobile       string `json:"mobile" binding:"required,mobile"`
	Password     string `json:"password" binding:"required"`
	ProfileImage string `json:"profileImage"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,mailbox"`
	Password string `json:"password" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required,mailbox"`
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,mailbox"`
	OTP   string `json:"otp" binding:"required,otp"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,mailbox"`
	NewPassword string `json:"newPassword" binding:"required"`
	ResetToken  string `json:"resetToken"`
}

type profileImageRequest struct {
	ProfileImage string `json:"profileImage" binding:"required"`
}

// loginUser is the shape returned by login.
type loginUser struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	ProfileImage string `json:"profileImage"`
}

type profileView struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Mobile       string    `json:"mobile"`
	ProfileImage string    `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
}

func publicUser(u *entity.User) loginUser {
	return loginUser{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email, ProfileImage: u.ProfileImage}
}

func profileOf(u *entity.User) profileView {
	return profileView{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Mobile:       u.Mobile,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.Auth.Signup(c.Request.Context(), application.SignupInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Mobile:       req.Mobile,
		Password:     req.Password,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": u.ID}, "Signup successful", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetAccess(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, gin.H{
		"token":    res.Token,
		"user":     publicUser(res.User),
		"redirect": res.Redirect,
	}, "Login successful", gin.H{"expires_at": res.ExpiresAt})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "Logged out", nil)
}

func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.OTP.SendOTP(c.Request.Context(), req.Email, clientIP(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if !res.Sent {
		response.Fail[any](c, http.StatusOK, nil, res.Message)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"expiresAt": res.ExpiresAt}, res.Message, nil)
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	out, err := h.OTP.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	if !out.OK() {
		response.Fail(c, http.StatusOK, gin.H{"status": out.Status}, out.Message)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": out.Status, "resetToken": out.ResetToken}, out.Message, nil)
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	err := h.Auth.ResetPassword(c.Request.Context(), application.ResetInput{
		Email:       req.Email,
		NewPassword: req.NewPassword,
		ResetToken:  req.ResetToken,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Password reset successful", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Auth.GetProfile(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, profileOf(u), "Profile", nil)
}

func (h *AuthHandler) UpdateProfileImage(c *gin.Context) {
	var req profileImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.Auth.UpdateProfileImage(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), req.ProfileImage)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, profileOf(u), "Profile updated", nil)
}

package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/festronix-auth/internal/interface/http"
	"github.com/oksasatya/festronix-auth/internal/interface/middleware"
	"github.com/oksasatya/festronix-auth/pkg/helpers"
)

// AuthModule wires credential and OTP routes under /api/auth.
// Public: signup, login, logout, send-otp, verify-otp, reset-password.
// Protected: GET /me, PUT /profile-image.
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/signup", m.Handler.Signup)
	auth.POST("/login", m.Handler.Login)
	auth.POST("/logout", m.Handler.Logout)
	auth.POST("/send-otp", m.Handler.SendOTP)
	auth.POST("/verify-otp", m.Handler.VerifyOTP)
	auth.POST("/reset-password", m.Handler.ResetPassword)

	protected := auth.Group("")
	protected.Use(middleware.JWTAuth(m.JWT))
	{
		protected.GET("/me", m.Handler.Me)
		protected.PUT("/profile-image", m.Handler.UpdateProfileImage)
	}
}

package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/festronix-auth/config"
	"github.com/oksasatya/festronix-auth/internal/application"
	"github.com/oksasatya/festronix-auth/internal/container"
	"github.com/oksasatya/festronix-auth/internal/infrastructure/otpstore"
	"github.com/oksasatya/festronix-auth/pkg/helpers"
)

func TestInitModules_RegistersRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	container.SetConfig(&config.Config{UploadFolder: "festronix", LoginRedirect: "dashboard.html"})
	container.SetLogger(logger)
	container.SetJWT(helpers.NewJWTManager("test-secret", time.Hour, time.Minute))
	container.SetOTP(application.NewOTPRegistry(otpstore.NewMemory(), 5*time.Minute))

	engine := gin.New()
	reg := NewRegistry(engine)
	InitModules(reg)
	reg.RegisterAll()

	var got []string
	for _, r := range engine.Routes() {
		got = append(got, r.Method+" "+r.Path)
	}
	sort.Strings(got)
	assert.Equal(t, []string{
		"GET /api/auth/me",
		"GET /api/health",
		"POST /api/auth/login",
		"POST /api/auth/logout",
		"POST /api/auth/reset-password",
		"POST /api/auth/send-otp",
		"POST /api/auth/signup",
		"POST /api/auth/verify-otp",
		"POST /api/upload",
		"POST /api/upload/file",
		"PUT /api/auth/profile-image",
	}, got)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

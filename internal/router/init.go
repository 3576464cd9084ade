package router

import (
	"github.com/oksasatya/festronix-auth/internal/application"
	"github.com/oksasatya/festronix-auth/internal/container"
	handlers "github.com/oksasatya/festronix-auth/internal/interface/http"
	"github.com/oksasatya/festronix-auth/internal/router/modules"
	"github.com/oksasatya/festronix-auth/pkg/helpers"
)

type AuthModuleDeps struct {
	Auth    *application.AuthService
	OTP     *application.OTPService
	Handler *handlers.AuthHandler
}

func buildAuthDeps() AuthModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	auth := application.NewAuthService(container.GetUsers(), container.GetJWT(), container.GetOTP(), logger)
	auth.RequireResetToken = cfg.ResetRequireToken
	auth.Redirect = cfg.LoginRedirect

	otp := application.NewOTPService(container.GetUsers(), container.GetOTP(), container.GetNotifier(), container.GetJWT(), logger)

	handler := handlers.NewAuthHandler(auth, otp, helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure), logger)

	return AuthModuleDeps{Auth: auth, OTP: otp, Handler: handler}
}

func buildUploadHandler() *handlers.UploadHandler {
	svc := application.NewUploadService(container.GetImageStore(), container.GetConfig().UploadFolder, container.GetLogger())
	return handlers.NewUploadHandler(svc, container.GetLogger())
}

// InitModules builds every module from the container and adds it to the registry.
// Call once at startup, after the container is populated.
func InitModules(r *Registry) {
	authDeps := buildAuthDeps()
	r.Add(
		modules.NewHealthModule(handlers.NewHealthHandler(container.GetHealthChecks())),
		modules.NewAuthModule(authDeps.Handler, container.GetJWT()),
		modules.NewUploadModule(buildUploadHandler()),
	)
}

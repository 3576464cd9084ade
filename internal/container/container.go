package container

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/festronix-auth/config"
	"github.com/oksasatya/festronix-auth/internal/application"
	"github.com/oksasatya/festronix-auth/internal/domain/gateway"
	"github.com/oksasatya/festronix-auth/internal/domain/repository"
	handlers "github.com/oksasatya/festronix-auth/internal/interface/http"
	"github.com/oksasatya/festronix-auth/pkg/helpers"
)

// app-level container shared between cmd/main and the router.
// cmd/main sets the adapters it selected from config; the router builds
// services and handlers from them.

var (
	cfg    *config.Config
	logger *logrus.Logger

	users      repository.UserRepository
	otp        *application.OTPRegistry
	notifier   gateway.Notifier
	imageStore gateway.ImageStore
	jwtManager *helpers.JWTManager

	healthChecks = map[string]handlers.HealthCheck{}
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config  { return cfg }
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger  { return logger }

func SetUsers(r repository.UserRepository) { users = r }
func GetUsers() repository.UserRepository  { return users }
func SetOTP(r *application.OTPRegistry)    { otp = r }
func GetOTP() *application.OTPRegistry     { return otp }

func SetNotifier(n gateway.Notifier)     { notifier = n }
func GetNotifier() gateway.Notifier      { return notifier }
func SetImageStore(s gateway.ImageStore) { imageStore = s }
func GetImageStore() gateway.ImageStore  { return imageStore }
func SetJWT(m *helpers.JWTManager)       { jwtManager = m }
func GetJWT() *helpers.JWTManager        { return jwtManager }

// AddHealthCheck registers a dependency ping reported by /api/health.
func AddHealthCheck(name string, check handlers.HealthCheck) { healthChecks[name] = check }
func GetHealthChecks() map[string]handlers.HealthCheck       { return healthChecks }

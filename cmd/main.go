package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/festronix-auth/config"
	"github.com/oksasatya/festronix-auth/internal/application"
	"github.com/oksasatya/festronix-auth/internal/container"
	"github.com/oksasatya/festronix-auth/internal/infrastructure/userstore"
	"github.com/oksasatya/festronix-auth/internal/interface/middleware"
	"github.com/oksasatya/festronix-auth/internal/router"
	"github.com/oksasatya/festronix-auth/pkg/helpers"
	"github.com/oksasatya/festronix-auth/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.WithError(err).Error("server stopped")
		stop()
		os.Exit(1)
	}
}

// run wires the application and serves until ctx is done. Every resource opened
// here is closed on return, including on a startup failure.
func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	// Credential store
	store, err := userstore.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("credential store: %w", err)
	}
	defer store.Close()
	container.AddHealthCheck(cfg.StoreDriver, store.Ping)

	// OTP registry
	otpStore, closeOTP, err := buildOTPStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("otp store: %w", err)
	}
	defer closeOTP()
	registry := application.NewOTPRegistry(otpStore, cfg.OTPTTL)
	go registry.RunSweeper(ctx, cfg.OTPSweepInterval, cfg.OTPSweepGrace, logger)

	// Gateways
	notifier, closeNotifier, err := buildNotifier(cfg, logger)
	if err != nil {
		return fmt.Errorf("notifier: %w", err)
	}
	defer closeNotifier()

	images, closeImages, err := buildImageStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("image store: %w", err)
	}
	defer closeImages()

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetUsers(store.Users)
	container.SetOTP(registry)
	container.SetNotifier(notifier)
	container.SetImageStore(images)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL, cfg.ResetTokenTTL))

	// Gin engine and global middleware
	r := gin.New()
	r.MaxMultipartMemory = application.MaxUploadBytes + 1<<20
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(cors.New(corsConfig(cfg)))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("server starting on :%s (store=%s otp=%s mail=%s upload=%s)",
			cfg.Port, cfg.StoreDriver, cfg.OTPStore, cfg.MailDriver, cfg.UploadDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
	return nil
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if cfg.AllowAllOrigins() {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = cfg.CORSOrigins()
	c.AllowCredentials = true
	return c
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/festronix-auth/config"
	"github.com/oksasatya/festronix-auth/internal/container"
	"github.com/oksasatya/festronix-auth/internal/domain/gateway"
	"github.com/oksasatya/festronix-auth/internal/domain/repository"
	"github.com/oksasatya/festronix-auth/internal/infrastructure/otpstore"
	"github.com/oksasatya/festronix-auth/internal/infrastructure/storage"
	"github.com/oksasatya/festronix-auth/pkg/helpers"
	"github.com/oksasatya/festronix-auth/pkg/mailer"
	mailtpl "github.com/oksasatya/festronix-auth/pkg/mailer/templates"
)

func noop() {}

func buildOTPStore(ctx context.Context, cfg *config.Config) (repository.OTPStore, func(), error) {
	if cfg.OTPStore != "redis" {
		return otpstore.NewMemory(), noop, nil
	}
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis: %w", err)
	}
	container.AddHealthCheck("redis", func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	return otpstore.NewRedis(rdb, cfg.OTPSweepGrace), func() { _ = rdb.Close() }, nil
}

func buildNotifier(cfg *config.Config, logger *logrus.Logger) (gateway.Notifier, func(), error) {
	if !cfg.MailSendEnabled {
		logger.Warn("MAIL_SEND_ENABLED=false; OTP emails will not be delivered")
		return &mailer.LogNotifier{Logger: logger}, noop, nil
	}
	branding := mailtpl.Branding{AppName: "FESTRONIX", FromName: cfg.MailFromName}
	switch cfg.MailDriver {
	case "mailgun":
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
			return nil, nil, errors.New("mailgun not configured")
		}
		return mailer.NewDirectNotifier(mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender), branding), noop, nil
	case "queue":
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq: %w", err)
		}
		return mailer.NewQueueNotifier(pub, branding), pub.Close, nil
	default:
		if cfg.EmailUser == "" || cfg.EmailPass == "" {
			return nil, nil, errors.New("smtp requires EMAIL_USER and EMAIL_PASS")
		}
		return mailer.NewDirectNotifier(mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass, cfg.MailFromName), branding), noop, nil
	}
}

func buildImageStore(ctx context.Context, cfg *config.Config) (gateway.ImageStore, func(), error) {
	if cfg.UploadDriver == "s3" {
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, nil, err
		}
		return s3, noop, nil
	}
	client, err := storage.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewGCS(client, cfg.GCSBucket), func() { _ = client.Close() }, nil
}

// Package userstore opens the credential store selected by STORE_DRIVER.
package userstore

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/oksasatya/festronix-auth/config"
	"github.com/oksasatya/festronix-auth/internal/domain/repository"
	"github.com/oksasatya/festronix-auth/internal/infrastructure/mongodb"
	"github.com/oksasatya/festronix-auth/internal/infrastructure/postgres"
)

type Store struct {
	Users repository.UserRepository
	Ping  func(ctx context.Context) error
	Close func()
}

// Open connects, prepares the schema and returns the repository.
// Postgres runs migrations; Mongo ensures the unique indexes.
func Open(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*Store, error) {
	switch cfg.StoreDriver {
	case "postgres":
		return openPostgres(ctx, cfg, logger)
	case "mongo":
		return openMongo(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*Store, error) {
	pool, err := postgres.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := postgres.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{
		Users: postgres.NewUserRepository(pool),
		Ping:  pool.Ping,
		Close: pool.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*Store, error) {
	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	repo := mongodb.NewUserRepository(client.Database(cfg.MongoDB))
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	logger.WithField("db", cfg.MongoDB).Info("mongo indexes ensured")
	return &Store{
		Users: repo,
		Ping:  func(ctx context.Context) error { return client.Ping(ctx, readpref.Primary()) },
		Close: func() { _ = client.Disconnect(context.Background()) },
	}, nil
}

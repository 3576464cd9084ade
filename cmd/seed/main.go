package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/festronix-auth/config"
	"github.com/oksasatya/festronix-auth/internal/application"
	"github.com/oksasatya/festronix-auth/internal/infrastructure/userstore"
	"github.com/oksasatya/festronix-auth/pkg/apperror"
	"github.com/oksasatya/festronix-auth/pkg/helpers"
)

// seed creates a demo account through the same signup path the API uses.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	store, err := userstore.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("credential store: %v", err)
	}
	defer store.Close()

	const (
		email    = "demo@festronix.dev"
		password = "password123"
	)
	svc := application.NewAuthService(store.Users, nil, nil, logger)
	u, err := svc.Signup(ctx, application.SignupInput{
		FirstName: "Demo",
		LastName:  "User",
		Email:     email,
		Mobile:    "9999999999",
		Password:  password,
	})
	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Kind == apperror.KindConflict {
		fmt.Printf("demo user already present: email=%s\n", email)
		return
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, u.Email, password)
}

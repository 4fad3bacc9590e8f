// Package main creates the schema and the initial operator account.
package main

import (
	"context"
	"fmt"
	"os"

	"posledger/internal/config"
	"posledger/internal/domain/auth"
	"posledger/internal/infrastructure/storage/postgres"
	"posledger/internal/infrastructure/storage/postgres/auth_repo"
	"posledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: true})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	if cfg.AdminPassword == "" {
		log.Fatal("ADMIN_PASSWORD environment variable is required")
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}
	log.Info("schema applied")

	txManager := postgres.NewTxManager(pool, postgres.DefaultTxOptions())
	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(cfg.JWTSecret))
	authService := auth.NewService(auth_repo.NewUserRepo(txManager), txManager, jwtService)

	user, err := authService.EnsureUser(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	log.Infow("seeding completed successfully", "username", user.Username, "user_id", user.ID)
}

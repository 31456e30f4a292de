package main

import (
	"context"
	"os"

	"github.com/iccs-ops/apr-portal/pkg/common/config"
	"github.com/iccs-ops/apr-portal/pkg/common/database"
	"github.com/iccs-ops/apr-portal/pkg/common/logger"
	"github.com/iccs-ops/apr-portal/pkg/identity"
)

// Creates the bootstrap admin account from ADMIN_USERNAME, ADMIN_EMAIL and
// ADMIN_PASSWORD. Safe to run on every deploy, existing accounts are left
// untouched.
func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	userRepo := identity.NewRepository(db)
	if err := userRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate user tables")
	}

	sessions := identity.NewSessionStore(database.GetRedis(), cfg.SessionTTL)
	service := identity.NewService(userRepo, sessions)

	username := os.Getenv("ADMIN_USERNAME")
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")

	if err := service.SeedAdmin(context.Background(), username, email, password); err != nil {
		logger.Log.WithError(err).Fatal("failed to seed admin user")
	}
}

package main

import (
	"context"
	"time"

	"github.com/iccs-ops/apr-portal/pkg/common/config"
	"github.com/iccs-ops/apr-portal/pkg/common/database"
	"github.com/iccs-ops/apr-portal/pkg/common/logger"
	"github.com/iccs-ops/apr-portal/pkg/mapping"
	"github.com/iccs-ops/apr-portal/pkg/status"
)

// One-shot sweep for cron: marks every process without an upload today as
// Missing and exits.
func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	statusRepo := status.NewRepository(db)
	if err := statusRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate status tables")
	}

	processes, err := mapping.LoadProcesses(cfg.ProcessListPath())
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load process list")
	}
	if len(processes) == 0 {
		logger.Log.Warn("Process list is empty, nothing to sweep")
		return
	}

	reconciler := status.NewReconciler(statusRepo, cfg.CleanDir)
	marked, err := reconciler.SweepMissing(context.Background(), time.Now().UTC(), processes)
	if err != nil {
		logger.Log.WithError(err).Fatal("missing-upload sweep failed")
	}

	logger.Log.WithFields(map[string]interface{}{
		"processes": len(processes),
		"marked":    marked,
	}).Info("Missing-upload sweep finished")
}

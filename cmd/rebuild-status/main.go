package main

import (
	"context"

	"github.com/iccs-ops/apr-portal/pkg/common/config"
	"github.com/iccs-ops/apr-portal/pkg/common/database"
	"github.com/iccs-ops/apr-portal/pkg/common/logger"
	"github.com/iccs-ops/apr-portal/pkg/status"
	"github.com/iccs-ops/apr-portal/pkg/upload"
)

// Replays every historical upload against its cleaned artifact to rebuild
// the status calendar, for recovery after the table was lost or corrupted.
func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	uploadRepo := upload.NewRepository(db)
	statusRepo := status.NewRepository(db)
	if err := statusRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate status tables")
	}

	files, err := uploadRepo.ListAll(context.Background())
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to list uploads")
	}

	refs := make([]status.UploadRef, 0, len(files))
	for _, f := range files {
		refs = append(refs, status.UploadRef{
			ID:          f.ID,
			Process:     f.Process,
			StoragePath: f.StoragePath,
		})
	}

	reconciler := status.NewReconciler(statusRepo, cfg.CleanDir)
	updated, failed := reconciler.RebuildFromArtifacts(context.Background(), refs)

	logger.Log.WithFields(map[string]interface{}{
		"uploads": len(refs),
		"updated": updated,
		"failed":  failed,
	}).Info("Status rebuild finished")
}

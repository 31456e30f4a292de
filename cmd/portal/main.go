package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/iccs-ops/apr-portal/pkg/cleaning"
	"github.com/iccs-ops/apr-portal/pkg/common/config"
	"github.com/iccs-ops/apr-portal/pkg/common/database"
	"github.com/iccs-ops/apr-portal/pkg/common/kafka"
	"github.com/iccs-ops/apr-portal/pkg/common/logger"
	"github.com/iccs-ops/apr-portal/pkg/export"
	"github.com/iccs-ops/apr-portal/pkg/identity"
	"github.com/iccs-ops/apr-portal/pkg/mapping"
	"github.com/iccs-ops/apr-portal/pkg/notify"
	"github.com/iccs-ops/apr-portal/pkg/observability/metrics"
	"github.com/iccs-ops/apr-portal/pkg/schema"
	"github.com/iccs-ops/apr-portal/pkg/status"
	"github.com/iccs-ops/apr-portal/pkg/upload"
	"github.com/iccs-ops/apr-portal/pkg/web/middleware"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}

	uploadRepo := upload.NewRepository(db)
	if err := uploadRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate upload tables")
	}
	statusRepo := status.NewRepository(db)
	if err := statusRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate status tables")
	}
	userRepo := identity.NewRepository(db)
	if err := userRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate user tables")
	}

	sessions := identity.NewSessionStore(database.GetRedis(), cfg.SessionTTL)
	identityService := identity.NewService(userRepo, sessions)

	catalog, err := cleaning.LoadCatalog(cfg.RuleCatalogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load cleaning rule catalog")
	}

	resolver := mapping.NewResolver(cfg.MapFilePath())
	pipeline := cleaning.NewPipeline(resolver, catalog, cfg.CleanDir)
	validator := schema.NewValidator(cfg.ReferencePath, cfg.AllowedExtensions)
	reconciler := status.NewReconciler(statusRepo, cfg.CleanDir)
	copier := export.NewCopier(cfg.ExportRoot)
	notifier := notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.NotifyRecipient)

	producer := kafka.NewProducer(cfg.UploadEventsTopic)
	defer producer.Close()

	uploadService := upload.NewService(
		validator, resolver, pipeline, reconciler, copier,
		uploadRepo, notifier, producer, cfg.UploadDir,
	)
	processList := func() ([]string, error) {
		return mapping.LoadProcesses(cfg.ProcessListPath())
	}
	uploadHandler := upload.NewHandler(uploadService, uploadRepo, statusRepo, processList, cfg.MaxRequestBody)
	identityHandler := identity.NewHandler(identityService)

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging, middleware.CORS)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if _, err := database.GetPostgres(); err != nil {
			http.Error(w, `{"status":"not ready"}`, http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.BodyLimit(cfg.MaxRequestBody), middleware.RateLimit(20, 40))
	identityHandler.Register(api)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Authenticate(sessions))
	uploadHandler.Register(protected)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("APR Portal started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	go runSweep(ctx, cfg, reconciler, producer)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down APR Portal...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("APR Portal stopped")
}

// runSweep periodically marks processes with no upload today as Missing.
func runSweep(ctx context.Context, cfg *config.Config, reconciler *status.Reconciler, producer *kafka.Producer) {
	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			processes, err := mapping.LoadProcesses(cfg.ProcessListPath())
			if err != nil {
				logger.Log.WithError(err).Warn("sweep skipped, could not load process list")
				continue
			}
			marked, err := reconciler.SweepMissing(ctx, time.Now().UTC(), processes)
			if err != nil {
				logger.Log.WithError(err).Warn("missing-upload sweep failed")
				continue
			}
			metrics.AddMissingMarked(marked)
			if err := producer.PublishEvent(ctx, "status-sweep", "apr-portal", map[string]interface{}{
				"marked":    marked,
				"processes": len(processes),
			}); err != nil {
				logger.Log.WithError(err).Warn("failed to publish sweep event")
			}
		case <-ctx.Done():
			return
		}
	}
}

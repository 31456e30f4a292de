package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/iccs-ops/apr-portal/pkg/common/config"
	"github.com/iccs-ops/apr-portal/pkg/common/kafka"
	"github.com/iccs-ops/apr-portal/pkg/common/logger"
	"github.com/iccs-ops/apr-portal/pkg/common/models"
)

// Tails the portal event topic and writes an audit line per event. Meant to
// run next to log shippers; the structured fields end up in the aggregator.
func main() {
	logger.Init()
	cfg := config.Load()

	consumer := kafka.NewConsumer(cfg.UploadEventsTopic, cfg.KafkaGroupID)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Log.Info("Shutting down event tail...")
		cancel()
	}()

	logger.Log.WithField("topic", cfg.UploadEventsTopic).Info("Event tail started")

	err := consumer.Consume(ctx, func(ctx context.Context, event models.Event) error {
		logger.Log.WithFields(map[string]interface{}{
			"event_id":   event.ID,
			"event_type": event.Type,
			"source":     event.Source,
			"timestamp":  event.Timestamp,
			"data":       event.Data,
		}).Info("Portal event")
		return nil
	})
	if err != nil && err != context.Canceled {
		logger.Log.WithError(err).Fatal("event tail stopped unexpectedly")
	}
}

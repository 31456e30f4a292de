package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/iccs-ops/apr-portal/pkg/common/logger"
	"github.com/iccs-ops/apr-portal/pkg/common/models"
	"github.com/iccs-ops/apr-portal/pkg/mapping"
	"github.com/iccs-ops/apr-portal/pkg/notify"
	"github.com/iccs-ops/apr-portal/pkg/observability/metrics"
	"github.com/iccs-ops/apr-portal/pkg/schema"
	"github.com/iccs-ops/apr-portal/pkg/table"
)

// Cleaner runs the per-process cleaning pipeline and returns the artifact path.
type Cleaner interface {
	Clean(filePath, processName string) (string, error)
}

// StatusRecorder upserts calendar entries from a cleaned artifact.
type StatusRecorder interface {
	RecordUpload(ctx context.Context, process, artifactPath string, fileID uuid.UUID) (int, error)
}

// Exporter places cleaned artifacts into the downstream tree.
type Exporter interface {
	Copy(process, exportCode, artifactPath string) (string, error)
}

// EventPublisher emits portal events onto the bus. May be nil in tests and
// batch tools.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error
}

// Records is the slice of persistence the service needs.
type Records interface {
	Create(ctx context.Context, file *UploadedFile) error
	SetArtifactPath(ctx context.Context, id uuid.UUID, artifactPath string) error
}

type Service struct {
	validator *schema.Validator
	resolver  *mapping.Resolver
	cleaner   Cleaner
	recorder  StatusRecorder
	exporter  Exporter
	records   Records
	notifier  notify.Notifier
	publisher EventPublisher
	uploadDir func(process string) string
}

func NewService(
	validator *schema.Validator,
	resolver *mapping.Resolver,
	cleaner Cleaner,
	recorder StatusRecorder,
	exporter Exporter,
	records Records,
	notifier notify.Notifier,
	publisher EventPublisher,
	uploadDir func(process string) string,
) *Service {
	return &Service{
		validator: validator,
		resolver:  resolver,
		cleaner:   cleaner,
		recorder:  recorder,
		exporter:  exporter,
		records:   records,
		notifier:  notifier,
		publisher: publisher,
		uploadDir: uploadDir,
	}
}

// Upload validates, stores and cleans a report in one pass. A validation
// failure returns a ValidationError; a cleaning failure after the raw file
// was stored returns a response with a warning instead, since the upload
// itself succeeded and can be replayed later.
func (s *Service) Upload(ctx context.Context, process, filename string, file io.Reader, actor string) (*models.UploadResponse, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}

	ok, message := s.validator.Validate(bytes.NewReader(data), filename, process)
	if !ok {
		return nil, NewValidationError(message)
	}

	dir := s.uploadDir(process)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	storagePath := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(storagePath, data, 0o644); err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	record := &UploadedFile{
		ID:           uuid.New(),
		Process:      process,
		OriginalName: filepath.Base(filename),
		StoragePath:  storagePath,
		Headers:      headerSnapshot(data, filename),
		UploadedBy:   actor,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("recording upload: %w", err)
	}

	resp := &models.UploadResponse{
		FileID:   record.ID,
		Process:  process,
		Message:  "File uploaded and cleaned successfully",
		Uploaded: record.CreatedAt,
	}

	artifact, err := s.cleaner.Clean(storagePath, process)
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"process": process,
			"file":    record.OriginalName,
		}).Error("Cleaning failed after upload")
		s.reportCleaningFailure(ctx, process, record.OriginalName, err)
		resp.Message = "File uploaded"
		resp.Warning = fmt.Sprintf("Upload succeeded but cleaning failed: %v", err)
		return resp, nil
	}

	if err := s.records.SetArtifactPath(ctx, record.ID, artifact); err != nil {
		logger.Log.WithError(err).WithField("file_id", record.ID).Error("Failed to record artifact path")
	}

	if n, err := s.recorder.RecordUpload(ctx, process, artifact, record.ID); err != nil {
		logger.Log.WithError(err).WithField("process", process).Error("Failed to record upload status")
	} else {
		metrics.AddStatusesRecorded(n)
	}

	if err := s.exportArtifact(process, artifact); err != nil {
		resp.Warning = fmt.Sprintf("File cleaned but failed to copy to destination: %v", err)
	}
	s.publish(ctx, "upload", map[string]interface{}{
		"file_id":  record.ID.String(),
		"process":  process,
		"filename": record.OriginalName,
		"artifact": artifact,
		"actor":    actor,
	})

	return resp, nil
}

// exportArtifact copies the artifact downstream. A failure never unwinds the
// upload; the caller surfaces it to the user as a warning.
func (s *Service) exportArtifact(process, artifact string) error {
	m, err := s.resolver.Resolve(process)
	if err != nil {
		logger.Log.WithError(err).WithField("process", process).Warn("No export mapping for downstream copy")
		return err
	}
	if _, err := s.exporter.Copy(process, m.ExportCode, artifact); err != nil {
		logger.Log.WithError(err).WithField("process", process).Warn("Failed to copy artifact downstream")
		return err
	}
	metrics.IncExportCopied()
	return nil
}

func (s *Service) reportCleaningFailure(ctx context.Context, process, filename string, cause error) {
	metrics.IncCleaningFailure()
	subject := fmt.Sprintf("Cleaning failed for %s", process)
	body := fmt.Sprintf("Process: %s\nFile: %s\nError: %v\n", process, filename, cause)
	if err := s.notifier.Notify(ctx, subject, body); err != nil {
		logger.Log.WithError(err).Warn("Failed to notify operator about cleaning failure")
	}
	s.publish(ctx, "cleaning-failure", map[string]interface{}{
		"process":  process,
		"filename": filename,
		"error":    cause.Error(),
	})
}

func (s *Service) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, eventType, "apr-portal", data); err != nil {
		logger.Log.WithError(err).WithField("event_type", eventType).Warn("Failed to publish event")
	}
}

func headerSnapshot(data []byte, filename string) datatypes.JSON {
	header, err := table.ReadHeader(bytes.NewReader(data), filename)
	if err != nil {
		return nil
	}
	snapshot, err := json.Marshal(header)
	if err != nil {
		return nil
	}
	return datatypes.JSON(snapshot)
}

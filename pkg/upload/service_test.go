package upload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/iccs-ops/apr-portal/pkg/common/logger"
	"github.com/iccs-ops/apr-portal/pkg/mapping"
	"github.com/iccs-ops/apr-portal/pkg/schema"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeCleaner struct {
	artifact string
	err      error
	calls    int
}

func (c *fakeCleaner) Clean(filePath, processName string) (string, error) {
	c.calls++
	return c.artifact, c.err
}

type fakeRecorder struct {
	calls    int
	process  string
	artifact string
}

func (r *fakeRecorder) RecordUpload(ctx context.Context, process, artifactPath string, fileID uuid.UUID) (int, error) {
	r.calls++
	r.process = process
	r.artifact = artifactPath
	return 1, nil
}

type fakeExporter struct {
	calls      int
	exportCode string
	err        error
}

func (e *fakeExporter) Copy(process, exportCode, artifactPath string) (string, error) {
	e.calls++
	e.exportCode = exportCode
	if e.err != nil {
		return "", e.err
	}
	return artifactPath, nil
}

type fakeRecords struct {
	created  []*UploadedFile
	artifact string
}

func (r *fakeRecords) Create(ctx context.Context, file *UploadedFile) error {
	r.created = append(r.created, file)
	return nil
}

func (r *fakeRecords) SetArtifactPath(ctx context.Context, id uuid.UUID, artifactPath string) error {
	r.artifact = artifactPath
	return nil
}

type fakeNotifier struct {
	subjects []string
}

func (n *fakeNotifier) Notify(ctx context.Context, subject, body string) error {
	n.subjects = append(n.subjects, subject)
	return nil
}

type fakePublisher struct {
	types []string
}

func (p *fakePublisher) PublishEvent(ctx context.Context, eventType string, source string, data map[string]interface{}) error {
	p.types = append(p.types, eventType)
	return nil
}

type serviceEnv struct {
	service   *Service
	cleaner   *fakeCleaner
	recorder  *fakeRecorder
	exporter  *fakeExporter
	records   *fakeRecords
	notifier  *fakeNotifier
	publisher *fakePublisher
	root      string
}

func newServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()
	root := t.TempDir()

	refDir := filepath.Join(root, "reference", "Helpdesk")
	if err := os.MkdirAll(refDir, 0o755); err != nil {
		t.Fatalf("failed to create reference dir: %v", err)
	}
	refPath := filepath.Join(refDir, "format.csv")
	if err := os.WriteFile(refPath, []byte("Agent,Calls,Date\n"), 0o644); err != nil {
		t.Fatalf("failed to write reference: %v", err)
	}

	mapPath := filepath.Join(root, "map.csv")
	if err := os.WriteFile(mapPath, []byte("Helpdesk,Login,Break,First Login,HD01\n"), 0o644); err != nil {
		t.Fatalf("failed to write map: %v", err)
	}

	env := &serviceEnv{
		cleaner:   &fakeCleaner{artifact: filepath.Join(root, "clean", "daily.csv")},
		recorder:  &fakeRecorder{},
		exporter:  &fakeExporter{},
		records:   &fakeRecords{},
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
		root:      root,
	}
	validator := schema.NewValidator(func(process string) string {
		return filepath.Join(root, "reference", process, "format.csv")
	}, []string{"csv", "xlsx"})

	env.service = NewService(
		validator,
		mapping.NewResolver(mapPath),
		env.cleaner,
		env.recorder,
		env.exporter,
		env.records,
		env.notifier,
		env.publisher,
		func(process string) string {
			return filepath.Join(root, "uploads", process)
		},
	)
	return env
}

func TestUploadHappyPath(t *testing.T) {
	env := newServiceEnv(t)

	resp, err := env.service.Upload(context.Background(), "Helpdesk", "daily.csv",
		strings.NewReader("Agent,Calls,Date\nalice,10,08-09-2025\n"), "ops")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if resp.Warning != "" {
		t.Errorf("unexpected warning: %s", resp.Warning)
	}

	stored := filepath.Join(env.root, "uploads", "Helpdesk", "daily.csv")
	if _, err := os.Stat(stored); err != nil {
		t.Errorf("raw upload not stored: %v", err)
	}

	if len(env.records.created) != 1 {
		t.Fatalf("expected 1 record, got %d", len(env.records.created))
	}
	record := env.records.created[0]
	if record.UploadedBy != "ops" || record.Process != "Helpdesk" {
		t.Errorf("unexpected record: %+v", record)
	}
	if string(record.Headers) != `["Agent","Calls","Date"]` {
		t.Errorf("unexpected header snapshot: %s", record.Headers)
	}

	if env.cleaner.calls != 1 {
		t.Errorf("expected cleaner to run once, got %d", env.cleaner.calls)
	}
	if env.recorder.calls != 1 || env.recorder.artifact != env.cleaner.artifact {
		t.Errorf("recorder not invoked with artifact: %+v", env.recorder)
	}
	if env.exporter.calls != 1 || env.exporter.exportCode != "HD01" {
		t.Errorf("exporter not invoked with export code: %+v", env.exporter)
	}
	if len(env.publisher.types) != 1 || env.publisher.types[0] != "upload" {
		t.Errorf("expected a single upload event, got %v", env.publisher.types)
	}
}

func TestUploadRejectsMismatchedColumns(t *testing.T) {
	env := newServiceEnv(t)

	_, err := env.service.Upload(context.Background(), "Helpdesk", "daily.csv",
		strings.NewReader("Agent,Wrong\nalice,10\n"), "ops")
	if !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(env.records.created) != 0 {
		t.Errorf("rejected upload must not be recorded")
	}
	if env.cleaner.calls != 0 {
		t.Errorf("rejected upload must not be cleaned")
	}
}

func TestUploadAcceptsPermutedColumns(t *testing.T) {
	env := newServiceEnv(t)

	_, err := env.service.Upload(context.Background(), "Helpdesk", "daily.csv",
		strings.NewReader("Date,Agent,Calls\n08-09-2025,alice,10\n"), "ops")
	if err != nil {
		t.Fatalf("permuted columns should validate: %v", err)
	}
}

func TestUploadSurvivesCleaningFailure(t *testing.T) {
	env := newServiceEnv(t)
	env.cleaner.err = errors.New("required columns not found")

	resp, err := env.service.Upload(context.Background(), "Helpdesk", "daily.csv",
		strings.NewReader("Agent,Calls,Date\nalice,10,08-09-2025\n"), "ops")
	if err != nil {
		t.Fatalf("cleaning failure must not fail the upload: %v", err)
	}
	if !strings.Contains(resp.Warning, "cleaning failed") {
		t.Errorf("expected cleaning warning, got %q", resp.Warning)
	}
	if len(env.records.created) != 1 {
		t.Errorf("raw upload should still be recorded")
	}
	if env.recorder.calls != 0 {
		t.Errorf("status must not be recorded without an artifact")
	}
	if env.exporter.calls != 0 {
		t.Errorf("nothing to export without an artifact")
	}
	if len(env.notifier.subjects) != 1 {
		t.Errorf("operator should be notified once, got %v", env.notifier.subjects)
	}
	if len(env.publisher.types) != 1 || env.publisher.types[0] != "cleaning-failure" {
		t.Errorf("expected a cleaning-failure event, got %v", env.publisher.types)
	}
}

func TestUploadWarnsWhenExportCopyFails(t *testing.T) {
	env := newServiceEnv(t)
	env.exporter.err = errors.New("disk full")

	resp, err := env.service.Upload(context.Background(), "Helpdesk", "daily.csv",
		strings.NewReader("Agent,Calls,Date\nalice,10,08-09-2025\n"), "ops")
	if err != nil {
		t.Fatalf("copy failure must not fail the upload: %v", err)
	}
	if !strings.Contains(resp.Warning, "failed to copy to destination") {
		t.Errorf("expected copy-failure warning, got %q", resp.Warning)
	}
	if !strings.Contains(resp.Warning, "disk full") {
		t.Errorf("expected warning to carry the cause, got %q", resp.Warning)
	}
	if env.recorder.calls != 1 {
		t.Errorf("status should still be recorded, got %d calls", env.recorder.calls)
	}
	if len(env.publisher.types) != 1 || env.publisher.types[0] != "upload" {
		t.Errorf("upload event should still publish, got %v", env.publisher.types)
	}
}

func TestUploadRejectsUnknownExtension(t *testing.T) {
	env := newServiceEnv(t)

	_, err := env.service.Upload(context.Background(), "Helpdesk", "daily.pdf",
		strings.NewReader("%PDF-1.4"), "ops")
	if !IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid file type") {
		t.Errorf("unexpected message: %v", err)
	}
}

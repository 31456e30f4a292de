package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iccs-ops/apr-portal/pkg/common/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestCopyRenamesWithExportCode(t *testing.T) {
	root := t.TempDir()
	artifact := filepath.Join(root, "daily_report.csv")
	if err := os.WriteFile(artifact, []byte("Agent,Calls\nalice,10\n"), 0o644); err != nil {
		t.Fatalf("failed to write artifact: %v", err)
	}

	copier := NewCopier(filepath.Join(root, "export"))
	dest, err := copier.Copy("Dish TV-Backend", "DTV01", artifact)
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}

	want := filepath.Join(root, "export", "Dish_TV-Backend", "APR_Clean", "DTV01%daily_report.csv")
	if dest != want {
		t.Fatalf("expected destination %s, got %s", want, dest)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("failed to read copy: %v", err)
	}
	if string(data) != "Agent,Calls\nalice,10\n" {
		t.Errorf("copy content mismatch: %q", data)
	}
}

func TestCopyOverwritesExisting(t *testing.T) {
	root := t.TempDir()
	artifact := filepath.Join(root, "daily.csv")
	if err := os.WriteFile(artifact, []byte("v2"), 0o644); err != nil {
		t.Fatalf("failed to write artifact: %v", err)
	}

	copier := NewCopier(filepath.Join(root, "export"))
	destDir := copier.DestDir("Helpdesk")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		t.Fatalf("failed to create dest dir: %v", err)
	}
	stale := filepath.Join(destDir, "HD01%daily.csv")
	if err := os.WriteFile(stale, []byte("v1"), 0o644); err != nil {
		t.Fatalf("failed to seed stale copy: %v", err)
	}

	dest, err := copier.Copy("Helpdesk", "HD01", artifact)
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("failed to read copy: %v", err)
	}
	if string(data) != "v2" {
		t.Errorf("expected overwrite, got %q", data)
	}
}

func TestCopyMissingArtifact(t *testing.T) {
	copier := NewCopier(t.TempDir())
	if _, err := copier.Copy("Helpdesk", "HD01", "/nonexistent/gone.csv"); err == nil {
		t.Fatal("expected error for missing artifact")
	}
}

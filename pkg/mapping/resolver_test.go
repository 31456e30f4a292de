package mapping

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeMapFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "map.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write map file: %v", err)
	}
	return path
}

func TestResolveNormalizesProcessName(t *testing.T) {
	path := writeMapFile(t, "JVVNL,TOTAL_LOGIN_TIME,TOTAL_BREAK_TIME,FIRST_LOGIN,JV01\nMeity,Login,Break,First Call,ME07\n")
	r := NewResolver(path)

	m, err := r.Resolve("  jvvnl ")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if m.LoginColumn != "TOTAL_LOGIN_TIME" || m.ExportCode != "JV01" {
		t.Errorf("unexpected mapping: %+v", m)
	}

	m, err = r.Resolve("MEITY")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if m.FirstLoginColumn != "First Call" {
		t.Errorf("unexpected first login column: %q", m.FirstLoginColumn)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	path := writeMapFile(t, "Proc,A,B,C,X1\nproc,D,E,F,X2\n")
	m, err := NewResolver(path).Resolve("proc")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if m.LoginColumn != "A" {
		t.Errorf("expected first row to win, got %+v", m)
	}
}

func TestResolveNotFound(t *testing.T) {
	path := writeMapFile(t, "Known,A,B,C,X\n")
	_, err := NewResolver(path).Resolve("unknown")
	if !errors.Is(err, ErrMappingNotFound) {
		t.Fatalf("expected ErrMappingNotFound, got %v", err)
	}
}

func TestResolveMissingFile(t *testing.T) {
	_, err := NewResolver(filepath.Join(t.TempDir(), "absent.csv")).Resolve("any")
	if !errors.Is(err, ErrMapFileNotFound) {
		t.Fatalf("expected ErrMapFileNotFound, got %v", err)
	}
}

func TestLoadProcesses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "process.csv")
	if err := os.WriteFile(path, []byte("JVVNL\nMeity\n\nDish TV-Backend\n"), 0o644); err != nil {
		t.Fatalf("failed to write process list: %v", err)
	}

	processes, err := LoadProcesses(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(processes) != 3 {
		t.Fatalf("expected 3 processes, got %v", processes)
	}
	if processes[2] != "Dish TV-Backend" {
		t.Errorf("unexpected process: %q", processes[2])
	}
}

func TestLoadProcessesMissingFileIsEmpty(t *testing.T) {
	processes, err := LoadProcesses(filepath.Join(t.TempDir(), "absent.csv"))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(processes) != 0 {
		t.Fatalf("expected empty list, got %v", processes)
	}
}

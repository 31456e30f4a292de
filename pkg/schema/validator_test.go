package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iccs-ops/apr-portal/pkg/common/logger"
	"github.com/xuri/excelize/v2"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func writeReference(t *testing.T, root, process string, columns []string) {
	t.Helper()
	dir := filepath.Join(root, process)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create reference dir: %v", err)
	}

	f := excelize.NewFile()
	sheet := f.GetSheetList()[0]
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			t.Fatalf("failed to set header cell: %v", err)
		}
	}
	if err := f.SaveAs(filepath.Join(dir, "format.xlsx")); err != nil {
		t.Fatalf("failed to save reference workbook: %v", err)
	}
}

func newTestValidator(t *testing.T, columns []string) *Validator {
	t.Helper()
	root := t.TempDir()
	writeReference(t, root, "jvvnl", columns)
	refPath := func(process string) string {
		return filepath.Join(root, process, "format.xlsx")
	}
	return NewValidator(refPath, []string{"csv", "xlsx"})
}

func TestValidateExactHeaderPasses(t *testing.T) {
	v := newTestValidator(t, []string{"Agent", "Login Time", "Break Time"})
	ok, msg := v.Validate(strings.NewReader("Agent,Login Time,Break Time\n"), "report.csv", "jvvnl")
	if !ok {
		t.Fatalf("expected valid, got %q", msg)
	}
}

func TestValidatePermutedHeaderPasses(t *testing.T) {
	v := newTestValidator(t, []string{"Agent", "Login Time", "Break Time"})
	ok, msg := v.Validate(strings.NewReader("break time,AGENT,Login Time\n"), "report.csv", "jvvnl")
	if !ok {
		t.Fatalf("expected permuted header to pass, got %q", msg)
	}
}

func TestValidateMismatchedHeaderFails(t *testing.T) {
	v := newTestValidator(t, []string{"Agent", "Login Time", "Break Time"})
	ok, msg := v.Validate(strings.NewReader("Agent,Login Time\n"), "report.csv", "jvvnl")
	if ok {
		t.Fatal("expected mismatch to fail")
	}
	if !strings.Contains(msg, "Column mismatched") {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestValidateRejectsUnknownExtension(t *testing.T) {
	v := newTestValidator(t, []string{"Agent"})
	ok, msg := v.Validate(strings.NewReader(""), "report.pdf", "jvvnl")
	if ok {
		t.Fatal("expected pdf to be rejected")
	}
	if !strings.Contains(msg, "Invalid file type") {
		t.Errorf("unexpected message: %q", msg)
	}
}

func TestValidateMissingReference(t *testing.T) {
	v := newTestValidator(t, []string{"Agent"})
	ok, msg := v.Validate(strings.NewReader("Agent\n"), "report.csv", "unknown-process")
	if ok {
		t.Fatal("expected missing reference to fail")
	}
	if !strings.Contains(msg, "Reference format file not found") {
		t.Errorf("unexpected message: %q", msg)
	}
}

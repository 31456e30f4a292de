package schema

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iccs-ops/apr-portal/pkg/common/logger"
	"github.com/iccs-ops/apr-portal/pkg/table"
)

// Validator checks an uploaded file's header against the stored per-process
// reference template. Results surface as a verdict plus a human-readable
// message; callers show the message to the uploading user as-is.
type Validator struct {
	referencePath func(process string) string
	allowedExts   map[string]struct{}
}

func NewValidator(referencePath func(process string) string, allowedExts []string) *Validator {
	exts := make(map[string]struct{})
	for _, ext := range allowedExts {
		if trimmed := strings.ToLower(strings.TrimSpace(ext)); trimmed != "" {
			exts[trimmed] = struct{}{}
		}
	}
	return &Validator{referencePath: referencePath, allowedExts: exts}
}

// Validate compares headers case-insensitively and order-insensitively:
// a permutation of the reference columns is a valid upload.
func (v *Validator) Validate(upload io.Reader, filename, processName string) (bool, string) {
	ext := table.Ext(filename)
	if _, ok := v.allowedExts[ext]; !ok {
		return false, fmt.Sprintf("Invalid file type: %s. Allowed types: .csv, .xlsx", ext)
	}

	refPath := v.referencePath(processName)
	refFile, err := os.Open(refPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, fmt.Sprintf("Reference format file not found for process: %s", processName)
		}
		logger.Log.WithError(err).WithField("process", processName).Error("failed to open reference format")
		return false, "Could not read reference format file."
	}
	defer refFile.Close()

	refHeader, err := table.ReadHeader(refFile, refPath)
	if err != nil {
		logger.Log.WithError(err).WithField("process", processName).Error("failed to read reference format")
		return false, "Could not read reference format file."
	}
	refSet, refCount := headerSet(refHeader)
	if refCount == 0 {
		return false, "Reference format file has no column headers."
	}

	uploadHeader, err := table.ReadHeader(upload, filename)
	if err != nil {
		return false, "Could not read uploaded file"
	}
	uploadSet, uploadCount := headerSet(uploadHeader)
	if uploadCount == 0 {
		return false, "Uploaded file has no column headers."
	}

	if !sameColumns(refSet, uploadSet) {
		return false, "Column mismatched. Please check the format."
	}

	return true, "File is valid"
}

// headerSet normalizes column names into a set, ignoring blank columns
// (spreadsheet exports often carry trailing unnamed columns).
func headerSet(header []string) (map[string]struct{}, int) {
	set := make(map[string]struct{})
	count := 0
	for _, col := range header {
		normalized := table.Normalize(col)
		if normalized == "" {
			continue
		}
		set[normalized] = struct{}{}
		count++
	}
	return set, count
}

func sameColumns(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for col := range a {
		if _, ok := b[col]; !ok {
			return false
		}
	}
	return true
}

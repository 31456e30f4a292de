package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iccs-ops/apr-portal/pkg/common/logger"
)

// Copier places cleaned artifacts into the downstream consumer's tree.
// The destination file name is prefixed with the process's export code so
// the consumer can route it without a lookup table.
type Copier struct {
	exportRoot string
}

func NewCopier(exportRoot string) *Copier {
	return &Copier{exportRoot: exportRoot}
}

// DestDir returns the per-process export directory. Spaces in the process
// name become underscores to keep downstream paths shell-safe.
func (c *Copier) DestDir(process string) string {
	return filepath.Join(c.exportRoot, strings.ReplaceAll(process, " ", "_"), "APR_Clean")
}

// Copy copies the cleaned artifact into the export tree and returns the
// destination path. An existing copy is overwritten.
func (c *Copier) Copy(process, exportCode, artifactPath string) (string, error) {
	destDir := c.DestDir(process)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	destName := fmt.Sprintf("%s%%%s", exportCode, filepath.Base(artifactPath))
	destPath := filepath.Join(destDir, destName)

	src, err := os.Open(artifactPath)
	if err != nil {
		return "", fmt.Errorf("opening cleaned artifact: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating export copy: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copying artifact: %w", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"process": process,
		"dest":    destPath,
	}).Info("Exported cleaned artifact")
	return destPath, nil
}

package status

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iccs-ops/apr-portal/pkg/cleaning"
	"github.com/iccs-ops/apr-portal/pkg/common/logger"
	"github.com/iccs-ops/apr-portal/pkg/table"
)

// Reconciler derives calendar-level upload state from cleaned artifacts.
type Reconciler struct {
	store    Store
	cleanDir func(process string) string
	now      func() time.Time
}

func NewReconciler(store Store, cleanDir func(process string) string) *Reconciler {
	return &Reconciler{store: store, cleanDir: cleanDir, now: time.Now}
}

// RecordUpload upserts an Uploaded entry for every distinct parsable Raw Date
// in the artifact. A single bad date is logged and skipped, never fatal. The
// count of recorded dates is returned.
func (r *Reconciler) RecordUpload(ctx context.Context, process, artifactPath string, fileID uuid.UUID) (int, error) {
	tbl, err := table.ReadFile(artifactPath)
	if err != nil {
		return 0, fmt.Errorf("reading cleaned artifact: %w", err)
	}

	rawIdx := tbl.ColumnIndex(cleaning.RawDateColumn)
	if rawIdx < 0 {
		logger.Log.WithFields(map[string]interface{}{
			"process": process,
			"path":    artifactPath,
		}).Warn("Cleaned artifact has no Raw Date column, nothing to record")
		return 0, nil
	}

	recorded := 0
	seen := make(map[string]struct{})
	for _, row := range tbl.Rows {
		value := strings.TrimSpace(row[rawIdx].String())
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}

		date, err := time.Parse(cleaning.RawDateFormat, value)
		if err != nil {
			logger.Log.WithFields(map[string]interface{}{
				"process": process,
				"value":   value,
			}).Error("Invalid Raw Date in cleaned artifact, skipping")
			continue
		}

		if err := r.store.Upsert(ctx, process, date, StatusUploaded, &fileID); err != nil {
			return recorded, fmt.Errorf("upserting status for %s/%s: %w", process, value, err)
		}
		recorded++
	}

	return recorded, nil
}

// SweepMissing marks every process without an Uploaded entry for the given
// day as Missing. Re-running is idempotent and never downgrades an Uploaded
// entry. Returns how many processes were marked.
func (r *Reconciler) SweepMissing(ctx context.Context, today time.Time, processes []string) (int, error) {
	marked := 0
	for _, process := range processes {
		uploaded, err := r.store.HasUploaded(ctx, process, today)
		if err != nil {
			return marked, fmt.Errorf("checking upload state for %s: %w", process, err)
		}
		if uploaded {
			continue
		}
		if err := r.store.Upsert(ctx, process, today, StatusMissing, nil); err != nil {
			return marked, fmt.Errorf("marking %s missing: %w", process, err)
		}
		marked++
	}
	return marked, nil
}

// RebuildFromArtifacts replays historical uploads against their cleaned
// artifacts. Artifacts are matched by base-name containment inside the
// process's clean directory. An artifact without a Raw Date column falls
// back to a single Uploaded entry dated today; this reproduces the historic
// behavior even though the real date is lost. Failures never abort the
// batch.
func (r *Reconciler) RebuildFromArtifacts(ctx context.Context, uploads []UploadRef) (updated, failed int) {
	for _, ref := range uploads {
		artifact, err := r.findArtifact(ref)
		if err != nil {
			logger.Log.WithFields(map[string]interface{}{
				"process": ref.Process,
				"upload":  ref.StoragePath,
			}).WithError(err).Warn("No cleaned artifact found for upload")
			failed++
			continue
		}

		tbl, err := table.ReadFile(artifact)
		if err != nil {
			logger.Log.WithError(err).WithField("path", artifact).Error("Failed to read cleaned artifact")
			failed++
			continue
		}

		fileID := ref.ID
		if tbl.ColumnIndex(cleaning.RawDateColumn) < 0 {
			if err := r.store.Upsert(ctx, ref.Process, r.now(), StatusUploaded, &fileID); err != nil {
				logger.Log.WithError(err).WithField("process", ref.Process).Error("Failed to upsert fallback status")
				failed++
				continue
			}
			updated++
			continue
		}

		n, err := r.RecordUpload(ctx, ref.Process, artifact, fileID)
		if err != nil {
			logger.Log.WithError(err).WithField("process", ref.Process).Error("Failed to record rebuilt upload")
			failed++
			continue
		}
		updated += n
	}
	return updated, failed
}

var errArtifactNotFound = fmt.Errorf("cleaned artifact not found")

func (r *Reconciler) findArtifact(ref UploadRef) (string, error) {
	dir := r.cleanDir(ref.Process)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errArtifactNotFound
	}

	base := filepath.Base(ref.StoragePath)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.Contains(entry.Name(), base) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", errArtifactNotFound
}

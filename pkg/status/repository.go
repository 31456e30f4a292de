package status

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is what the reconciler needs from persistence.
type Store interface {
	Upsert(ctx context.Context, process string, date time.Time, statusValue string, fileID *uuid.UUID) error
	HasUploaded(ctx context.Context, process string, date time.Time) (bool, error)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&UploadStatus{})
}

// Upsert writes the (process, date) entry transactionally: on conflict with
// the unique key the existing row is updated in place.
func (r *Repository) Upsert(ctx context.Context, process string, date time.Time, statusValue string, fileID *uuid.UUID) error {
	entry := UploadStatus{
		ID:             uuid.New(),
		Process:        process,
		Date:           DateOnly(date),
		Status:         statusValue,
		UploadedFileID: fileID,
		UpdatedAt:      time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "process"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "uploaded_file_id", "updated_at"}),
	}).Create(&entry).Error
}

func (r *Repository) HasUploaded(ctx context.Context, process string, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&UploadStatus{}).
		Where("process = ? AND date = ? AND status = ?", process, DateOnly(date), StatusUploaded).
		Count(&count).Error
	return count > 0, err
}

// ListByProcess returns entries for a process, newest date first.
func (r *Repository) ListByProcess(ctx context.Context, process string) ([]UploadStatus, error) {
	var entries []UploadStatus
	err := r.db.WithContext(ctx).
		Where("process = ?", process).
		Order("date DESC").
		Find(&entries).Error
	return entries, err
}

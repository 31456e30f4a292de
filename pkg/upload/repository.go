package upload

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("uploaded file not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&UploadedFile{})
}

func (r *Repository) Create(ctx context.Context, file *UploadedFile) error {
	return r.db.WithContext(ctx).Create(file).Error
}

// SetArtifactPath records where the cleaned artifact landed.
func (r *Repository) SetArtifactPath(ctx context.Context, id uuid.UUID, artifactPath string) error {
	return r.db.WithContext(ctx).Model(&UploadedFile{}).
		Where("id = ?", id).
		Update("artifact_path", artifactPath).Error
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*UploadedFile, error) {
	var file UploadedFile
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// List returns uploads newest first, optionally scoped to a process.
func (r *Repository) List(ctx context.Context, process string, limit int) ([]UploadedFile, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if process != "" {
		q = q.Where("process = ?", process)
	}
	var files []UploadedFile
	err := q.Find(&files).Error
	return files, err
}

// ListAll walks every upload oldest first, for status rebuilds.
func (r *Repository) ListAll(ctx context.Context) ([]UploadedFile, error) {
	var files []UploadedFile
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&files).Error
	return files, err
}

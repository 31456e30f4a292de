package upload

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UploadedFile is the durable record of a raw upload. Headers holds the
// column names seen at upload time so the row stays meaningful even after
// the reference format for the process changes.
type UploadedFile struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Process      string         `json:"process" gorm:"index"`
	OriginalName string         `json:"original_name"`
	StoragePath  string         `json:"storage_path"`
	ArtifactPath string         `json:"artifact_path,omitempty"`
	Headers      datatypes.JSON `json:"headers,omitempty"`
	UploadedBy   string         `json:"uploaded_by"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (UploadedFile) TableName() string {
	return "uploaded_files"
}

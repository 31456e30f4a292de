package status

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusUploaded = "Uploaded"
	StatusMissing  = "Missing"
)

// UploadStatus tracks per-(process, date) completeness. The composite unique
// index makes concurrent writes for the same key serialize into a single row
// at the database, last writer wins.
type UploadStatus struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Process        string     `json:"process" gorm:"uniqueIndex:idx_upload_status_process_date"`
	Date           time.Time  `json:"date" gorm:"type:date;uniqueIndex:idx_upload_status_process_date"`
	Status         string     `json:"status" gorm:"index"`
	UploadedFileID *uuid.UUID `json:"uploaded_file_id,omitempty" gorm:"type:uuid"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (UploadStatus) TableName() string {
	return "upload_statuses"
}

// UploadRef is the slice of uploaded-file metadata the rebuild pass needs.
type UploadRef struct {
	ID          uuid.UUID
	Process     string
	StoragePath string
}

// DateOnly truncates a timestamp to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

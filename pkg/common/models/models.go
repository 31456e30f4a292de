package models

import (
	"time"

	"github.com/google/uuid"
)

// Upload boundary models
type UploadRequest struct {
	Process  string `json:"process"`
	Filename string `json:"filename"`
}

type UploadResponse struct {
	FileID   uuid.UUID `json:"file_id"`
	Process  string    `json:"process"`
	Message  string    `json:"message"`
	Warning  string    `json:"warning,omitempty"`
	Uploaded time.Time `json:"uploaded_at"`
}

// Event bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // upload, cleaning-failure, status-sweep
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// Session user as seen by handlers after authentication.
type SessionUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	IsAdmin  bool      `json:"is_admin"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

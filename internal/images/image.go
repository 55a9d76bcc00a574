// Package images implements the image store: upload, content dedup, blob
// persistence, and metadata listing. Records are immutable once created.
package images

import (
	"time"

	"github.com/google/uuid"
)

// Image is the stored metadata for one uploaded image. The blob itself lives
// in the storage system under StorageKey.
type Image struct {
	ID               uuid.UUID  `json:"id"`
	UserID           *uuid.UUID `json:"user_id"`
	StorageKey       string     `json:"storage_key"`
	FileHash         string     `json:"file_hash"`
	OriginalFilename string     `json:"original_filename"`
	ContentType      string     `json:"content_type"`
	SizeBytes        int64      `json:"size_bytes"`
	BatchID          *uuid.UUID `json:"batch_id"`
	CreatedAt        time.Time  `json:"created_at"`
}

// UploadCommand carries one file to store.
type UploadCommand struct {
	Filename string
	Data     []byte
	UserID   uuid.UUID
	BatchID  *uuid.UUID
}

// UploadResult is the per-file outcome of a batch upload. Partial success is
// allowed: one failed file never rolls back its siblings.
type UploadResult struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
	Image    *Image `json:"image,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Upload result statuses.
const (
	StatusCreated   = "created"
	StatusDuplicate = "duplicate"
	StatusFailed    = "failed"
)

// Filters narrows image listings.
type Filters struct {
	UserID  *uuid.UUID
	BatchID *uuid.UUID
}

// Census partitions images by whether at least one classification exists.
type Census struct {
	Total      int
	Classified int
}

package images

import (
	"github.com/skinatlas/skinrest/pkg/query"
	"github.com/skinatlas/skinrest/pkg/repository"
)

func projection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "images", "i").
		Project("id", "id").
		Project("user_id", "user_id").
		Project("storage_key", "storage_key").
		Project("file_hash", "file_hash").
		Project("original_filename", "original_filename").
		Project("content_type", "content_type").
		Project("size_bytes", "size_bytes").
		Project("batch_id", "batch_id").
		Project("created_at", "created_at")
}

func scanImage(s repository.Scanner) (Image, error) {
	var img Image
	err := s.Scan(
		&img.ID,
		&img.UserID,
		&img.StorageKey,
		&img.FileHash,
		&img.OriginalFilename,
		&img.ContentType,
		&img.SizeBytes,
		&img.BatchID,
		&img.CreatedAt,
	)
	return img, err
}

package images

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/skinatlas/skinrest/pkg/pagination"
	"github.com/skinatlas/skinrest/pkg/storage"
)

// Concurrent blob uploads per batch request.
const batchUploadConcurrency = 4

// System exposes image store operations. Census is the read-only projection
// the metrics aggregator consumes.
type System interface {
	Upload(ctx context.Context, cmd UploadCommand) (Image, bool, error)
	UploadBatch(ctx context.Context, cmds []UploadCommand) (uuid.UUID, []UploadResult)
	Find(ctx context.Context, id uuid.UUID) (Image, error)
	Page(ctx context.Context, req pagination.PageRequest, filters Filters) (pagination.PageResult[Image], error)
	Download(ctx context.Context, id uuid.UUID) (Image, io.ReadCloser, error)
	Census(ctx context.Context, from, to *time.Time) (Census, error)
}

type system struct {
	repo   *Repository
	blobs  storage.System
	logger *slog.Logger
}

// New creates the image system.
func New(db *sql.DB, blobs storage.System, logger *slog.Logger) System {
	return &system{
		repo:   NewRepository(db),
		blobs:  blobs,
		logger: logger.With("system", "images"),
	}
}

// Upload stores one image. Content is hashed with SHA-256; when the hash is
// already known the existing record is returned and the second return value
// is true. Blobs are keyed by hash, so replaying an upload is harmless.
func (s *system) Upload(ctx context.Context, cmd UploadCommand) (Image, bool, error) {
	if len(cmd.Data) == 0 {
		return Image{}, false, ErrEmptyFile
	}

	contentType := http.DetectContentType(cmd.Data)
	if !strings.HasPrefix(contentType, "image/") {
		return Image{}, false, ErrUnsupportedType
	}

	sum := sha256.Sum256(cmd.Data)
	hash := hex.EncodeToString(sum[:])

	existing, err := s.repo.FindByHash(ctx, hash)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Image{}, false, err
	}

	key := hash + extension(cmd.Filename, contentType)
	if err := s.blobs.Upload(ctx, key, bytes.NewReader(cmd.Data), contentType); err != nil {
		return Image{}, false, err
	}

	userID := cmd.UserID
	img, err := s.repo.Create(ctx, Image{
		ID:               uuid.New(),
		UserID:           &userID,
		StorageKey:       key,
		FileHash:         hash,
		OriginalFilename: cmd.Filename,
		ContentType:      contentType,
		SizeBytes:        int64(len(cmd.Data)),
		BatchID:          cmd.BatchID,
		CreatedAt:        time.Now().UTC(),
	})
	if err != nil {
		// Lost a dedup race with a concurrent upload of the same content.
		if errors.Is(err, ErrDuplicateHash) {
			if winner, findErr := s.repo.FindByHash(ctx, hash); findErr == nil {
				return winner, true, nil
			}
		}
		return Image{}, false, err
	}

	s.logger.Info("image stored", "image_id", img.ID, "hash", hash, "size", img.SizeBytes)
	return img, false, nil
}

// UploadBatch stores many images under one shared batch id. Files are
// uploaded concurrently; failures are reported per file and never abort the
// rest of the batch.
func (s *system) UploadBatch(ctx context.Context, cmds []UploadCommand) (uuid.UUID, []UploadResult) {
	batchID := uuid.New()
	results := make([]UploadResult, len(cmds))

	var g errgroup.Group
	g.SetLimit(batchUploadConcurrency)

	for i, cmd := range cmds {
		cmd.BatchID = &batchID

		g.Go(func() error {
			img, duplicate, err := s.Upload(ctx, cmd)

			result := UploadResult{Filename: cmd.Filename}
			switch {
			case err != nil:
				result.Status = StatusFailed
				result.Error = err.Error()
			case duplicate:
				result.Status = StatusDuplicate
				result.Image = &img
			default:
				result.Status = StatusCreated
				result.Image = &img
			}

			results[i] = result
			return nil
		})
	}

	g.Wait()
	return batchID, results
}

func (s *system) Find(ctx context.Context, id uuid.UUID) (Image, error) {
	return s.repo.Find(ctx, id)
}

func (s *system) Page(ctx context.Context, req pagination.PageRequest, filters Filters) (pagination.PageResult[Image], error) {
	return s.repo.Page(ctx, req, filters)
}

// Download returns the image metadata and a stream of its blob content.
// The caller must close the stream.
func (s *system) Download(ctx context.Context, id uuid.UUID) (Image, io.ReadCloser, error) {
	img, err := s.repo.Find(ctx, id)
	if err != nil {
		return Image{}, nil, err
	}

	reader, err := s.blobs.Download(ctx, img.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Image{}, nil, ErrNotFound
		}
		return Image{}, nil, err
	}

	return img, reader, nil
}

func (s *system) Census(ctx context.Context, from, to *time.Time) (Census, error) {
	return s.repo.Census(ctx, from, to)
}

func extension(filename, contentType string) string {
	if ext := filepath.Ext(filename); ext != "" {
		return strings.ToLower(ext)
	}

	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	}
	return ""
}

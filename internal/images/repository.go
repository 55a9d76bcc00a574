package images

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/skinatlas/skinrest/pkg/pagination"
	"github.com/skinatlas/skinrest/pkg/query"
	"github.com/skinatlas/skinrest/pkg/repository"
)

// Repository provides data access for image metadata.
type Repository struct {
	db         *sql.DB
	projection *query.ProjectionMap
}

// NewRepository creates an image repository backed by the given connection pool.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db:         db,
		projection: projection(),
	}
}

// Create inserts image metadata. A unique violation on the content hash maps
// to ErrDuplicateHash.
func (r *Repository) Create(ctx context.Context, img Image) (Image, error) {
	const insert = `
		INSERT INTO public.images (id, user_id, storage_key, file_hash, original_filename, content_type, size_bytes, batch_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, insert,
		img.ID,
		img.UserID,
		img.StorageKey,
		img.FileHash,
		img.OriginalFilename,
		img.ContentType,
		img.SizeBytes,
		img.BatchID,
		img.CreatedAt,
	)
	if err != nil {
		return Image{}, repository.MapError(err, ErrNotFound, ErrDuplicateHash)
	}

	return img, nil
}

// Find returns the image with the given id.
func (r *Repository) Find(ctx context.Context, id uuid.UUID) (Image, error) {
	q, args := query.NewBuilder(r.projection).BuildSingle("id", id)

	img, err := repository.QueryOne(ctx, r.db, q, args, scanImage)
	if err != nil {
		return Image{}, repository.MapError(err, ErrNotFound, ErrDuplicateHash)
	}
	return img, nil
}

// FindByHash returns the image with the given content hash, if any.
func (r *Repository) FindByHash(ctx context.Context, hash string) (Image, error) {
	q, args := query.NewBuilder(r.projection).BuildSingle("file_hash", hash)

	img, err := repository.QueryOne(ctx, r.db, q, args, scanImage)
	if err != nil {
		return Image{}, repository.MapError(err, ErrNotFound, ErrDuplicateHash)
	}
	return img, nil
}

// Page returns a page of image metadata, newest first.
func (r *Repository) Page(ctx context.Context, req pagination.PageRequest, filters Filters) (pagination.PageResult[Image], error) {
	builder := query.
		NewBuilder(r.projection, query.SortField{Field: "created_at", Descending: true}).
		WhereEquals("user_id", filters.UserID).
		WhereEquals("batch_id", filters.BatchID).
		WhereSearch(req.Search, "original_filename").
		OrderByFields(req.Sort)

	countSQL, countArgs := builder.BuildCount()

	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return pagination.PageResult[Image]{}, err
	}

	pageSQL, pageArgs := builder.BuildPage(req.Page, req.PageSize)

	records, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanImage)
	if err != nil {
		return pagination.PageResult[Image]{}, err
	}

	return pagination.NewPageResult(records, total, req.Page, req.PageSize), nil
}

// Census counts images within the optional time window [from, to) and how
// many of them carry at least one classification.
func (r *Repository) Census(ctx context.Context, from, to *time.Time) (Census, error) {
	clauses := ""
	args := make([]any, 0, 2)

	if from != nil {
		args = append(args, *from)
		clauses += fmt.Sprintf(" WHERE i.created_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		if clauses == "" {
			clauses = fmt.Sprintf(" WHERE i.created_at < $%d", len(args))
		} else {
			clauses += fmt.Sprintf(" AND i.created_at < $%d", len(args))
		}
	}

	q := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE EXISTS (
				SELECT 1 FROM public.classifications c WHERE c.image_id = i.id
			))
		FROM %s%s`,
		r.projection.From(),
		clauses,
	)

	var census Census
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&census.Total, &census.Classified); err != nil {
		return Census{}, err
	}
	return census, nil
}

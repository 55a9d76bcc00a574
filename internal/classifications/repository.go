package classifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skinatlas/skinrest/pkg/pagination"
	"github.com/skinatlas/skinrest/pkg/query"
	"github.com/skinatlas/skinrest/pkg/repository"
)

const pgForeignKeyCode = "23503"

// Repository provides data access for the classification ledger.
type Repository struct {
	db         *sql.DB
	projection *query.ProjectionMap
}

// NewRepository creates a ledger repository backed by the given connection pool.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db:         db,
		projection: projection(),
	}
}

// Create appends a ledger entry. A foreign key violation on the image
// reference maps to ErrImageNotFound.
func (r *Repository) Create(ctx context.Context, cmd CreateCommand) (Classification, error) {
	record := Classification{
		ID:           uuid.New(),
		ImageID:      cmd.ImageID,
		Stage:        cmd.Stage,
		Observations: cmd.Observations,
		UserID:       cmd.UserID,
		CreatedAt:    time.Now().UTC(),
	}

	const insert = `
		INSERT INTO public.classifications (id, image_id, stage, observations, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, insert,
		record.ID,
		record.ImageID,
		string(record.Stage),
		record.Observations,
		record.UserID,
		record.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyCode {
			return Classification{}, ErrImageNotFound
		}
		return Classification{}, err
	}

	return record, nil
}

// Find returns the ledger entry with the given id.
func (r *Repository) Find(ctx context.Context, id uuid.UUID) (Classification, error) {
	q, args := query.NewBuilder(r.projection).BuildSingle("id", id)

	record, err := repository.QueryOne(ctx, r.db, q, args, scanClassification)
	if err != nil {
		return Classification{}, repository.MapError(err, ErrNotFound, ErrNotFound)
	}
	return record, nil
}

// Page returns a page of ledger entries, newest first.
func (r *Repository) Page(ctx context.Context, req pagination.PageRequest, filters Filters) (pagination.PageResult[Classification], error) {
	builder := query.
		NewBuilder(r.projection, query.SortField{Field: "created_at", Descending: true}).
		WhereEquals("image_id", filters.ImageID).
		OrderByFields(req.Sort)

	countSQL, countArgs := builder.BuildCount()

	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return pagination.PageResult[Classification]{}, err
	}

	pageSQL, pageArgs := builder.BuildPage(req.Page, req.PageSize)

	records, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanClassification)
	if err != nil {
		return pagination.PageResult[Classification]{}, err
	}

	return pagination.NewPageResult(records, total, req.Page, req.PageSize), nil
}

// CountByStage returns per-stage totals within the optional time window
// [from, to). Stages with no entries are absent from the result.
func (r *Repository) CountByStage(ctx context.Context, from, to *time.Time) (map[Stage]int, error) {
	where, args := rangeWhere(from, to)
	q := fmt.Sprintf(
		"SELECT c.stage, COUNT(*) FROM %s%s GROUP BY c.stage",
		r.projection.From(),
		where,
	)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[Stage]int)
	for rows.Next() {
		var (
			stage string
			count int
		)
		if err := rows.Scan(&stage, &count); err != nil {
			return nil, err
		}
		counts[Stage(stage)] = count
	}

	return counts, rows.Err()
}

// CountPerDay returns per-day totals keyed by YYYY-MM-DD within the optional
// time window [from, to). Days with no entries are absent from the result.
func (r *Repository) CountPerDay(ctx context.Context, from, to *time.Time) (map[string]int, error) {
	where, args := rangeWhere(from, to)
	q := fmt.Sprintf(
		"SELECT to_char(c.created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD'), COUNT(*) FROM %s%s GROUP BY 1",
		r.projection.From(),
		where,
	)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			day   string
			count int
		)
		if err := rows.Scan(&day, &count); err != nil {
			return nil, err
		}
		counts[day] = count
	}

	return counts, rows.Err()
}

// CountByUser returns per-author totals within the optional time window
// [from, to). Authors with no entries are absent from the result.
func (r *Repository) CountByUser(ctx context.Context, from, to *time.Time) (map[uuid.UUID]int, error) {
	where, args := rangeWhere(from, to)
	q := fmt.Sprintf(
		"SELECT c.user_id, COUNT(*) FROM %s%s GROUP BY c.user_id",
		r.projection.From(),
		where,
	)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			userID uuid.UUID
			count  int
		)
		if err := rows.Scan(&userID, &count); err != nil {
			return nil, err
		}
		counts[userID] = count
	}

	return counts, rows.Err()
}

func rangeWhere(from, to *time.Time) (string, []any) {
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 2)

	if from != nil {
		args = append(args, *from)
		clauses = append(clauses, fmt.Sprintf("c.created_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		clauses = append(clauses, fmt.Sprintf("c.created_at < $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}

	where := " WHERE " + clauses[0]
	if len(clauses) == 2 {
		where += " AND " + clauses[1]
	}
	return where, args
}

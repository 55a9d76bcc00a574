package classifications

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/skinatlas/skinrest/pkg/pagination"
)

// System exposes ledger operations. The Count methods are the read-only
// projections the metrics aggregator consumes.
type System interface {
	Create(ctx context.Context, cmd CreateCommand) (Classification, error)
	Find(ctx context.Context, id uuid.UUID) (Classification, error)
	Page(ctx context.Context, req pagination.PageRequest, filters Filters) (pagination.PageResult[Classification], error)
	CountByStage(ctx context.Context, from, to *time.Time) (map[Stage]int, error)
	CountPerDay(ctx context.Context, from, to *time.Time) (map[string]int, error)
	CountByUser(ctx context.Context, from, to *time.Time) (map[uuid.UUID]int, error)
}

type system struct {
	repo   *Repository
	logger *slog.Logger
}

// New creates the ledger system.
func New(db *sql.DB, logger *slog.Logger) System {
	return &system{
		repo:   NewRepository(db),
		logger: logger.With("system", "classifications"),
	}
}

func (s *system) Create(ctx context.Context, cmd CreateCommand) (Classification, error) {
	if _, ok := ParseStage(string(cmd.Stage)); !ok {
		return Classification{}, ErrInvalidStage
	}

	record, err := s.repo.Create(ctx, cmd)
	if err != nil {
		return Classification{}, err
	}

	s.logger.Info("classification recorded",
		"classification_id", record.ID,
		"image_id", record.ImageID,
		"stage", record.Stage,
		"user_id", record.UserID,
	)
	return record, nil
}

func (s *system) Find(ctx context.Context, id uuid.UUID) (Classification, error) {
	return s.repo.Find(ctx, id)
}

func (s *system) Page(ctx context.Context, req pagination.PageRequest, filters Filters) (pagination.PageResult[Classification], error) {
	return s.repo.Page(ctx, req, filters)
}

func (s *system) CountByStage(ctx context.Context, from, to *time.Time) (map[Stage]int, error) {
	return s.repo.CountByStage(ctx, from, to)
}

func (s *system) CountPerDay(ctx context.Context, from, to *time.Time) (map[string]int, error) {
	return s.repo.CountPerDay(ctx, from, to)
}

func (s *system) CountByUser(ctx context.Context, from, to *time.Time) (map[uuid.UUID]int, error) {
	return s.repo.CountByUser(ctx, from, to)
}

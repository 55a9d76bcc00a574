package metrics

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skinatlas/skinrest/internal/classifications"
	"github.com/skinatlas/skinrest/internal/images"
	"github.com/skinatlas/skinrest/internal/users"
)

// UserDirectory is the slice of the user system the aggregator reads.
type UserDirectory interface {
	CountUsers(ctx context.Context) (int, error)
	Summaries(ctx context.Context, ids []uuid.UUID) ([]users.Summary, error)
}

// ImageCensus is the slice of the image system the aggregator reads.
type ImageCensus interface {
	Census(ctx context.Context, from, to *time.Time) (images.Census, error)
}

// Ledger is the read-only projection of the classification ledger. Results
// reflect writes committed before each read began; the sub-queries of one
// report may observe slightly different instants, which is acceptable for a
// dashboard read.
type Ledger interface {
	CountByStage(ctx context.Context, from, to *time.Time) (map[classifications.Stage]int, error)
	CountPerDay(ctx context.Context, from, to *time.Time) (map[string]int, error)
	CountByUser(ctx context.Context, from, to *time.Time) (map[uuid.UUID]int, error)
}

// System computes dashboard reports.
type System interface {
	Report(ctx context.Context, r Range) (Report, error)
}

type system struct {
	directory UserDirectory
	census    ImageCensus
	ledger    Ledger
	logger    *slog.Logger
}

// New creates the metrics aggregator over the given read-only projections.
func New(directory UserDirectory, census ImageCensus, ledger Ledger, logger *slog.Logger) System {
	return &system{
		directory: directory,
		census:    census,
		ledger:    ledger,
		logger:    logger.With("system", "metrics"),
	}
}

func (s *system) Report(ctx context.Context, r Range) (Report, error) {
	from, to := r.Bounds()

	totalUsers, err := s.directory.CountUsers(ctx)
	if err != nil {
		return Report{}, storeError(err)
	}

	census, err := s.census.Census(ctx, from, to)
	if err != nil {
		return Report{}, storeError(err)
	}

	perCategory, err := s.countPerCategory(ctx, from, to)
	if err != nil {
		return Report{}, storeError(err)
	}

	byUser, err := s.countByUser(ctx, from, to)
	if err != nil {
		return Report{}, storeError(err)
	}

	report := Report{
		TotalUsers:              totalUsers,
		TotalImages:             census.Total,
		ClassifiedImagesCount:   census.Classified,
		UnclassifiedImagesCount: census.Total - census.Classified,
		PerCategory:             perCategory,
		ByUser:                  byUser,
	}

	if r.Set {
		daily, err := s.countDaily(ctx, r, from, to)
		if err != nil {
			return Report{}, storeError(err)
		}
		report.Daily = daily
	}

	return report, nil
}

// countPerCategory seeds every stage with zero so the result is always the
// full closed enumeration.
func (s *system) countPerCategory(ctx context.Context, from, to *time.Time) (map[classifications.Stage]int, error) {
	counts, err := s.ledger.CountByStage(ctx, from, to)
	if err != nil {
		return nil, err
	}

	perCategory := make(map[classifications.Stage]int, len(classifications.Stages()))
	for _, stage := range classifications.Stages() {
		perCategory[stage] = 0
	}
	for stage, count := range counts {
		if _, ok := perCategory[stage]; ok {
			perCategory[stage] = count
		}
	}

	return perCategory, nil
}

// countByUser joins ledger author counts with the user directory. Ordered by
// count descending, then name ascending case-insensitive, then email, so the
// output is deterministic.
func (s *system) countByUser(ctx context.Context, from, to *time.Time) ([]UserActivity, error) {
	counts, err := s.ledger.CountByUser(ctx, from, to)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}

	summaries, err := s.directory.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	activity := make([]UserActivity, 0, len(summaries))
	for _, summary := range summaries {
		count := counts[summary.ID]
		if count == 0 {
			continue
		}
		activity = append(activity, UserActivity{
			ID:                  summary.ID,
			Name:                summary.Name,
			Email:               summary.Email,
			ClassificationCount: count,
			LastActive:          summary.LastActive,
		})
	}

	sort.Slice(activity, func(i, j int) bool {
		if activity[i].ClassificationCount != activity[j].ClassificationCount {
			return activity[i].ClassificationCount > activity[j].ClassificationCount
		}
		ni, nj := strings.ToLower(activity[i].Name), strings.ToLower(activity[j].Name)
		if ni != nj {
			return ni < nj
		}
		return activity[i].Email < activity[j].Email
	})

	return activity, nil
}

// countDaily enumerates every calendar day of the range, zero-count days
// included, in chronological order.
func (s *system) countDaily(ctx context.Context, r Range, from, to *time.Time) ([]DayCount, error) {
	counts, err := s.ledger.CountPerDay(ctx, from, to)
	if err != nil {
		return nil, err
	}

	daily := make([]DayCount, 0, r.Days())
	for day := r.From; !day.After(r.To); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateLayout)
		daily = append(daily, DayCount{Date: key, Count: counts[key]})
	}

	return daily, nil
}

func storeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrStoreTimeout
	}
	return err
}

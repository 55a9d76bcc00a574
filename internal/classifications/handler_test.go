package classifications_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/skinatlas/skinrest/internal/classifications"
	"github.com/skinatlas/skinrest/pkg/auth"
	"github.com/skinatlas/skinrest/pkg/handlers"
	"github.com/skinatlas/skinrest/pkg/pagination"
)

type mockSystem struct {
	createFn func(ctx context.Context, cmd classifications.CreateCommand) (classifications.Classification, error)
	findFn   func(ctx context.Context, id uuid.UUID) (classifications.Classification, error)
	pageFn   func(ctx context.Context, req pagination.PageRequest, filters classifications.Filters) (pagination.PageResult[classifications.Classification], error)
}

func (m *mockSystem) Create(ctx context.Context, cmd classifications.CreateCommand) (classifications.Classification, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (classifications.Classification, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Page(ctx context.Context, req pagination.PageRequest, filters classifications.Filters) (pagination.PageResult[classifications.Classification], error) {
	return m.pageFn(ctx, req, filters)
}

func (m *mockSystem) CountByStage(context.Context, *time.Time, *time.Time) (map[classifications.Stage]int, error) {
	return nil, nil
}

func (m *mockSystem) CountPerDay(context.Context, *time.Time, *time.Time) (map[string]int, error) {
	return nil, nil
}

func (m *mockSystem) CountByUser(context.Context, *time.Time, *time.Time) (map[uuid.UUID]int, error) {
	return nil, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pageCfg() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func authed(r *http.Request, id auth.Identity) *http.Request {
	return r.WithContext(auth.WithIdentity(r.Context(), id))
}

func TestCreateClassification(t *testing.T) {
	caller := auth.Identity{ID: uuid.New(), Email: "nurse@example.com"}

	t.Run("valid command appends a record", func(t *testing.T) {
		sys := &mockSystem{
			createFn: func(_ context.Context, cmd classifications.CreateCommand) (classifications.Classification, error) {
				if cmd.UserID != caller.ID {
					t.Errorf("author = %s, want caller %s", cmd.UserID, caller.ID)
				}
				return classifications.Classification{
					ID:      uuid.New(),
					ImageID: cmd.ImageID,
					Stage:   cmd.Stage,
					UserID:  cmd.UserID,
				}, nil
			},
		}
		h := classifications.NewHandler(sys, pageCfg(), discard())

		body := `{"image_id":"` + uuid.NewString() + `","stage":"stage2"}`
		req := authed(httptest.NewRequest("POST", "/", strings.NewReader(body)), caller)
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}

		var got classifications.Classification
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Stage != classifications.Stage2 {
			t.Errorf("stage = %q", got.Stage)
		}
	})

	t.Run("unknown stage returns field error", func(t *testing.T) {
		h := classifications.NewHandler(&mockSystem{}, pageCfg(), discard())

		body := `{"image_id":"` + uuid.NewString() + `","stage":"stage9"}`
		req := authed(httptest.NewRequest("POST", "/", strings.NewReader(body)), caller)
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}

		var got handlers.ErrorBody
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got.Errors["stage"]) == 0 {
			t.Errorf("missing stage field error: %v", got.Errors)
		}
	})

	t.Run("missing image returns 404", func(t *testing.T) {
		sys := &mockSystem{
			createFn: func(context.Context, classifications.CreateCommand) (classifications.Classification, error) {
				return classifications.Classification{}, classifications.ErrImageNotFound
			},
		}
		h := classifications.NewHandler(sys, pageCfg(), discard())

		body := `{"image_id":"` + uuid.NewString() + `","stage":"dtpi"}`
		req := authed(httptest.NewRequest("POST", "/", strings.NewReader(body)), caller)
		rec := httptest.NewRecorder()
		h.Create(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestListClassifications(t *testing.T) {
	imageID := uuid.New()

	sys := &mockSystem{
		pageFn: func(_ context.Context, req pagination.PageRequest, filters classifications.Filters) (pagination.PageResult[classifications.Classification], error) {
			if filters.ImageID == nil || *filters.ImageID != imageID {
				t.Errorf("filter image_id = %v, want %s", filters.ImageID, imageID)
			}
			return pagination.NewPageResult([]classifications.Classification{
				{ID: uuid.New(), ImageID: imageID, Stage: classifications.Stage1},
			}, 1, req.Page, req.PageSize), nil
		},
	}
	h := classifications.NewHandler(sys, pageCfg(), discard())

	req := httptest.NewRequest("GET", "/?image_id="+imageID.String(), nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got pagination.PageResult[classifications.Classification]
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Total != 1 || len(got.Data) != 1 {
		t.Errorf("total = %d, data = %d", got.Total, len(got.Data))
	}
}

func TestListRejectsBadImageFilter(t *testing.T) {
	h := classifications.NewHandler(&mockSystem{}, pageCfg(), discard())

	req := httptest.NewRequest("GET", "/?image_id=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

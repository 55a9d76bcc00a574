package images_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/skinatlas/skinrest/internal/classifications"
	"github.com/skinatlas/skinrest/internal/images"
	"github.com/skinatlas/skinrest/pkg/auth"
	"github.com/skinatlas/skinrest/pkg/handlers"
	"github.com/skinatlas/skinrest/pkg/pagination"
)

type mockSystem struct {
	uploadFn      func(ctx context.Context, cmd images.UploadCommand) (images.Image, bool, error)
	uploadBatchFn func(ctx context.Context, cmds []images.UploadCommand) (uuid.UUID, []images.UploadResult)
	findFn        func(ctx context.Context, id uuid.UUID) (images.Image, error)
	pageFn        func(ctx context.Context, req pagination.PageRequest, filters images.Filters) (pagination.PageResult[images.Image], error)
}

func (m *mockSystem) Upload(ctx context.Context, cmd images.UploadCommand) (images.Image, bool, error) {
	return m.uploadFn(ctx, cmd)
}

func (m *mockSystem) UploadBatch(ctx context.Context, cmds []images.UploadCommand) (uuid.UUID, []images.UploadResult) {
	return m.uploadBatchFn(ctx, cmds)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (images.Image, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Page(ctx context.Context, req pagination.PageRequest, filters images.Filters) (pagination.PageResult[images.Image], error) {
	return m.pageFn(ctx, req, filters)
}

func (m *mockSystem) Download(context.Context, uuid.UUID) (images.Image, io.ReadCloser, error) {
	return images.Image{}, nil, images.ErrNotFound
}

func (m *mockSystem) Census(context.Context, *time.Time, *time.Time) (images.Census, error) {
	return images.Census{}, nil
}

type mockLedger struct {
	createFn func(ctx context.Context, cmd classifications.CreateCommand) (classifications.Classification, error)
}

func (m *mockLedger) Create(ctx context.Context, cmd classifications.CreateCommand) (classifications.Classification, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockLedger) Find(context.Context, uuid.UUID) (classifications.Classification, error) {
	return classifications.Classification{}, classifications.ErrNotFound
}

func (m *mockLedger) Page(context.Context, pagination.PageRequest, classifications.Filters) (pagination.PageResult[classifications.Classification], error) {
	return pagination.PageResult[classifications.Classification]{}, nil
}

func (m *mockLedger) CountByStage(context.Context, *time.Time, *time.Time) (map[classifications.Stage]int, error) {
	return nil, nil
}

func (m *mockLedger) CountPerDay(context.Context, *time.Time, *time.Time) (map[string]int, error) {
	return nil, nil
}

func (m *mockLedger) CountByUser(context.Context, *time.Time, *time.Time) (map[uuid.UUID]int, error) {
	return nil, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(sys images.System, ledger classifications.System) *images.Handler {
	return images.NewHandler(sys, ledger, pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}, 32<<20, discard())
}

func authed(r *http.Request, id auth.Identity) *http.Request {
	return r.WithContext(auth.WithIdentity(r.Context(), id))
}

func multipartBody(t *testing.T, field string, filenames ...string) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for _, name := range filenames {
		part, err := writer.CreateFormFile(field, name)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte("fake image bytes for " + name))
	}
	writer.Close()

	return buf, writer.FormDataContentType()
}

func TestUploadSingle(t *testing.T) {
	caller := auth.Identity{ID: uuid.New()}

	t.Run("stored file returns 201", func(t *testing.T) {
		sys := &mockSystem{
			uploadFn: func(_ context.Context, cmd images.UploadCommand) (images.Image, bool, error) {
				if cmd.UserID != caller.ID {
					t.Errorf("uploader = %s, want %s", cmd.UserID, caller.ID)
				}
				return images.Image{ID: uuid.New(), OriginalFilename: cmd.Filename}, false, nil
			},
		}
		h := newHandler(sys, &mockLedger{})

		body, contentType := multipartBody(t, "image", "wound.png")
		req := authed(httptest.NewRequest("POST", "/upload/single", body), caller)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.UploadSingle(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
	})

	t.Run("duplicate content returns 200 with existing record", func(t *testing.T) {
		existing := images.Image{ID: uuid.New(), OriginalFilename: "original.png"}
		sys := &mockSystem{
			uploadFn: func(context.Context, images.UploadCommand) (images.Image, bool, error) {
				return existing, true, nil
			},
		}
		h := newHandler(sys, &mockLedger{})

		body, contentType := multipartBody(t, "image", "copy.png")
		req := authed(httptest.NewRequest("POST", "/upload/single", body), caller)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.UploadSingle(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got images.Image
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.ID != existing.ID {
			t.Errorf("id = %s, want existing %s", got.ID, existing.ID)
		}
	})

	t.Run("missing file returns field error", func(t *testing.T) {
		h := newHandler(&mockSystem{}, &mockLedger{})

		body, contentType := multipartBody(t, "other")
		req := authed(httptest.NewRequest("POST", "/upload/single", body), caller)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.UploadSingle(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestUploadBatch(t *testing.T) {
	caller := auth.Identity{ID: uuid.New()}
	batchID := uuid.New()

	sys := &mockSystem{
		uploadBatchFn: func(_ context.Context, cmds []images.UploadCommand) (uuid.UUID, []images.UploadResult) {
			results := make([]images.UploadResult, len(cmds))
			for i, cmd := range cmds {
				img := images.Image{ID: uuid.New(), OriginalFilename: cmd.Filename}
				results[i] = images.UploadResult{Filename: cmd.Filename, Status: images.StatusCreated, Image: &img}
			}
			results[1].Status = images.StatusFailed
			results[1].Image = nil
			results[1].Error = "boom"
			return batchID, results
		},
	}
	h := newHandler(sys, &mockLedger{})

	body, contentType := multipartBody(t, "images", "a.png", "b.png", "c.png")
	req := authed(httptest.NewRequest("POST", "/upload", body), caller)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.UploadBatch(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var got struct {
		BatchID       uuid.UUID             `json:"batch_id"`
		Results       []images.UploadResult `json:"results"`
		UploadedCount int                   `json:"uploaded_count"`
		FailedCount   int                   `json:"failed_count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.BatchID != batchID {
		t.Errorf("batch_id = %s, want %s", got.BatchID, batchID)
	}
	if got.UploadedCount != 2 || got.FailedCount != 1 {
		t.Errorf("uploaded = %d, failed = %d", got.UploadedCount, got.FailedCount)
	}
}

func TestUploadWithStage(t *testing.T) {
	caller := auth.Identity{ID: uuid.New()}

	t.Run("invalid stage stores nothing", func(t *testing.T) {
		batchCalled := false
		sys := &mockSystem{
			uploadBatchFn: func(_ context.Context, cmds []images.UploadCommand) (uuid.UUID, []images.UploadResult) {
				batchCalled = true
				return uuid.New(), nil
			},
		}
		h := newHandler(sys, &mockLedger{})

		body, contentType := multipartBody(t, "images", "a.png")
		req := authed(httptest.NewRequest("POST", "/upload/with-stage?stage=stage9", body), caller)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.UploadWithStage(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		if batchCalled {
			t.Error("batch upload ran despite invalid stage")
		}

		var errBody handlers.ErrorBody
		if err := json.NewDecoder(rec.Body).Decode(&errBody); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(errBody.Errors["stage"]) == 0 {
			t.Errorf("missing stage field error: %v", errBody.Errors)
		}
	})

	t.Run("stored images are classified by the caller", func(t *testing.T) {
		imgID := uuid.New()
		sys := &mockSystem{
			uploadBatchFn: func(_ context.Context, cmds []images.UploadCommand) (uuid.UUID, []images.UploadResult) {
				img := images.Image{ID: imgID, OriginalFilename: cmds[0].Filename}
				return uuid.New(), []images.UploadResult{
					{Filename: cmds[0].Filename, Status: images.StatusCreated, Image: &img},
				}
			},
		}

		var classified []classifications.CreateCommand
		ledger := &mockLedger{
			createFn: func(_ context.Context, cmd classifications.CreateCommand) (classifications.Classification, error) {
				classified = append(classified, cmd)
				return classifications.Classification{ID: uuid.New(), ImageID: cmd.ImageID, Stage: cmd.Stage}, nil
			},
		}
		h := newHandler(sys, ledger)

		body, contentType := multipartBody(t, "images", "a.png")
		req := authed(httptest.NewRequest("POST", "/upload/with-stage?stage=stage3", body), caller)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		h.UploadWithStage(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
		if len(classified) != 1 {
			t.Fatalf("classified %d images, want 1", len(classified))
		}
		if classified[0].ImageID != imgID || classified[0].Stage != classifications.Stage3 || classified[0].UserID != caller.ID {
			t.Errorf("classification command = %+v", classified[0])
		}
	})
}

func TestUploadBase64(t *testing.T) {
	caller := auth.Identity{ID: uuid.New()}

	t.Run("valid payload uploads decoded bytes", func(t *testing.T) {
		raw := []byte("fake png bytes")
		sys := &mockSystem{
			uploadFn: func(_ context.Context, cmd images.UploadCommand) (images.Image, bool, error) {
				if !bytes.Equal(cmd.Data, raw) {
					t.Errorf("data = %q, want %q", cmd.Data, raw)
				}
				return images.Image{ID: uuid.New()}, false, nil
			},
		}
		h := newHandler(sys, &mockLedger{})

		payload := `{"image":"data:image/png;base64,` + base64.StdEncoding.EncodeToString(raw) + `","filename":"wound.png"}`
		req := authed(httptest.NewRequest("POST", "/upload/base64", strings.NewReader(payload)), caller)
		rec := httptest.NewRecorder()
		h.UploadBase64(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}
	})

	t.Run("invalid base64 returns field error", func(t *testing.T) {
		h := newHandler(&mockSystem{}, &mockLedger{})

		req := authed(httptest.NewRequest("POST", "/upload/base64", strings.NewReader(`{"image":"!!!not-base64!!!"}`)), caller)
		rec := httptest.NewRecorder()
		h.UploadBase64(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestListImages(t *testing.T) {
	t.Run("filters pass through", func(t *testing.T) {
		userID := uuid.New()
		sys := &mockSystem{
			pageFn: func(_ context.Context, req pagination.PageRequest, filters images.Filters) (pagination.PageResult[images.Image], error) {
				if filters.UserID == nil || *filters.UserID != userID {
					t.Errorf("user filter = %v, want %s", filters.UserID, userID)
				}
				return pagination.NewPageResult([]images.Image{}, 0, req.Page, req.PageSize), nil
			},
		}
		h := newHandler(sys, &mockLedger{})

		req := httptest.NewRequest("GET", "/?user_id="+userID.String(), nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("bad filter uuid returns 400", func(t *testing.T) {
		h := newHandler(&mockSystem{}, &mockLedger{})

		req := httptest.NewRequest("GET", "/?batch_id=nope", nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

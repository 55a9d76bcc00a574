package images

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/skinatlas/skinrest/internal/classifications"
	"github.com/skinatlas/skinrest/pkg/auth"
	"github.com/skinatlas/skinrest/pkg/handlers"
	"github.com/skinatlas/skinrest/pkg/pagination"
	"github.com/skinatlas/skinrest/pkg/routes"
)

// Handler serves the image store endpoints. The classification ledger is
// needed for staged uploads, where every stored image also gets a ledger
// entry authored by the caller.
type Handler struct {
	images    System
	ledger    classifications.System
	pageCfg   pagination.Config
	maxUpload int64
	logger    *slog.Logger
}

// NewHandler creates an image handler.
func NewHandler(images System, ledger classifications.System, pageCfg pagination.Config, maxUpload int64, logger *slog.Logger) *Handler {
	return &Handler{
		images:    images,
		ledger:    ledger,
		pageCfg:   pageCfg,
		maxUpload: maxUpload,
		logger:    logger.With("handler", "images"),
	}
}

// Routes returns the image route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "/", Handler: h.List},
			{Method: http.MethodGet, Pattern: "/{id}", Handler: h.Find},
			{Method: http.MethodGet, Pattern: "/{id}/file", Handler: h.Download},
			{Method: http.MethodPost, Pattern: "/upload", Handler: h.UploadBatch},
			{Method: http.MethodPost, Pattern: "/upload/single", Handler: h.UploadSingle},
			{Method: http.MethodPost, Pattern: "/upload/with-stage", Handler: h.UploadWithStage},
			{Method: http.MethodPost, Pattern: "/upload/base64", Handler: h.UploadBase64},
		},
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var filters Filters
	fields := handlers.FieldErrors{}

	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			fields["user_id"] = append(fields["user_id"], "user_id must be a valid uuid")
		} else {
			filters.UserID = &id
		}
	}
	if raw := r.URL.Query().Get("batch_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			fields["batch_id"] = append(fields["batch_id"], "batch_id must be a valid uuid")
		} else {
			filters.BatchID = &id
		}
	}
	if len(fields) > 0 {
		handlers.RespondValidation(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	page, err := h.images.Page(r.Context(), pagination.FromQuery(r.URL.Query(), h.pageCfg), filters)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, page)
}

func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondValidation(w, http.StatusBadRequest, "validation failed", handlers.FieldErrors{
			"id": {"id must be a valid uuid"},
		})
		return
	}

	img, err := h.images.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, img)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondValidation(w, http.StatusBadRequest, "validation failed", handlers.FieldErrors{
			"id": {"id must be a valid uuid"},
		})
		return
	}

	img, reader, err := h.images.Download(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", img.OriginalFilename))
	io.Copy(w, reader)
}

func (h *Handler) UploadSingle(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrTokenRequired)
		return
	}

	data, filename, ok := h.formFile(w, r, "image")
	if !ok {
		return
	}

	img, duplicate, err := h.images.Upload(r.Context(), UploadCommand{
		Filename: filename,
		Data:     data,
		UserID:   caller.ID,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	status := http.StatusCreated
	if duplicate {
		status = http.StatusOK
	}
	handlers.RespondJSON(w, status, img)
}

func (h *Handler) UploadBatch(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrTokenRequired)
		return
	}

	cmds, ok := h.formFiles(w, r, caller.ID)
	if !ok {
		return
	}

	batchID, results := h.images.UploadBatch(r.Context(), cmds)
	handlers.RespondJSON(w, http.StatusCreated, batchResponse(batchID, results))
}

// UploadWithStage stores a batch and appends one ledger entry per stored
// image. The stage is validated before any file is read, so an invalid stage
// never stores anything.
func (h *Handler) UploadWithStage(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrTokenRequired)
		return
	}

	stage, ok := classifications.ParseStage(r.URL.Query().Get("stage"))
	if !ok {
		handlers.RespondValidation(w, http.StatusBadRequest, "validation failed", handlers.FieldErrors{
			"stage": {"stage must be a valid classification stage"},
		})
		return
	}

	cmds, ok := h.formFiles(w, r, caller.ID)
	if !ok {
		return
	}

	batchID, results := h.images.UploadBatch(r.Context(), cmds)

	staged := make([]stagedResult, len(results))
	for i, result := range results {
		staged[i] = stagedResult{UploadResult: result}
		if result.Image == nil {
			continue
		}

		record, err := h.ledger.Create(r.Context(), classifications.CreateCommand{
			ImageID: result.Image.ID,
			Stage:   stage,
			UserID:  caller.ID,
		})
		if err != nil {
			h.logger.Error("classify uploaded image failed", "image_id", result.Image.ID, "error", err)
			staged[i].Error = err.Error()
			continue
		}
		staged[i].Classification = &record
	}

	handlers.RespondJSON(w, http.StatusCreated, map[string]any{
		"batch_id": batchID,
		"stage":    stage,
		"results":  staged,
	})
}

type base64Request struct {
	Image       string  `json:"image"`
	Filename    string  `json:"filename"`
	Description *string `json:"description"`
}

func (h *Handler) UploadBase64(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrTokenRequired)
		return
	}

	var req base64Request
	if err := json.NewDecoder(io.LimitReader(r.Body, h.maxUpload)).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if req.Image == "" {
		handlers.RespondValidation(w, http.StatusBadRequest, "validation failed", handlers.FieldErrors{
			"image": {"image is required"},
		})
		return
	}

	payload := req.Image
	if idx := strings.Index(payload, ";base64,"); idx >= 0 {
		payload = payload[idx+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		handlers.RespondValidation(w, http.StatusBadRequest, "validation failed", handlers.FieldErrors{
			"image": {"image must be valid base64"},
		})
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = "upload"
	}

	img, duplicate, err := h.images.Upload(r.Context(), UploadCommand{
		Filename: filename,
		Data:     data,
		UserID:   caller.ID,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	status := http.StatusCreated
	if duplicate {
		status = http.StatusOK
	}
	handlers.RespondJSON(w, status, img)
}

type stagedResult struct {
	UploadResult
	Classification *classifications.Classification `json:"classification,omitempty"`
}

func batchResponse(batchID uuid.UUID, results []UploadResult) map[string]any {
	var created, duplicates, failed int
	for _, result := range results {
		switch result.Status {
		case StatusCreated:
			created++
		case StatusDuplicate:
			duplicates++
		case StatusFailed:
			failed++
		}
	}

	return map[string]any{
		"batch_id":        batchID,
		"results":         results,
		"uploaded_count":  created,
		"duplicate_count": duplicates,
		"failed_count":    failed,
	}
}

func (h *Handler) formFile(w http.ResponseWriter, r *http.Request, field string) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid multipart form"))
		return nil, "", false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		handlers.RespondValidation(w, http.StatusBadRequest, "validation failed", handlers.FieldErrors{
			field: {field + " file is required"},
		})
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("read upload failed"))
		return nil, "", false
	}

	return data, header.Filename, true
}

func (h *Handler) formFiles(w http.ResponseWriter, r *http.Request, userID uuid.UUID) ([]UploadCommand, bool) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid multipart form"))
		return nil, false
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		handlers.RespondValidation(w, http.StatusBadRequest, "validation failed", handlers.FieldErrors{
			"images": {"at least one image file is required"},
		})
		return nil, false
	}

	cmds := make([]UploadCommand, 0, len(files))
	for _, header := range files {
		data, err := readHeader(header)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("read upload failed"))
			return nil, false
		}
		cmds = append(cmds, UploadCommand{
			Filename: header.Filename,
			Data:     data,
			UserID:   userID,
		})
	}

	return cmds, true
}

func readHeader(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

package classifications

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/skinatlas/skinrest/pkg/auth"
	"github.com/skinatlas/skinrest/pkg/handlers"
	"github.com/skinatlas/skinrest/pkg/pagination"
	"github.com/skinatlas/skinrest/pkg/routes"
)

// Handler serves the classification ledger endpoints.
type Handler struct {
	ledger  System
	pageCfg pagination.Config
	logger  *slog.Logger
}

// NewHandler creates a ledger handler.
func NewHandler(ledger System, pageCfg pagination.Config, logger *slog.Logger) *Handler {
	return &Handler{
		ledger:  ledger,
		pageCfg: pageCfg,
		logger:  logger.With("handler", "classifications"),
	}
}

// Routes returns the ledger route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: http.MethodPost, Pattern: "/", Handler: h.Create},
			{Method: http.MethodGet, Pattern: "/", Handler: h.List},
			{Method: http.MethodGet, Pattern: "/{id}", Handler: h.Find},
		},
	}
}

type createRequest struct {
	ImageID      string  `json:"image_id"`
	Stage        string  `json:"stage"`
	Observations *string `json:"observations"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrTokenRequired)
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	fields := handlers.FieldErrors{}

	imageID, err := uuid.Parse(req.ImageID)
	if req.ImageID == "" {
		fields["image_id"] = append(fields["image_id"], "image_id is required")
	} else if err != nil {
		fields["image_id"] = append(fields["image_id"], "image_id must be a valid uuid")
	}

	stage, ok := ParseStage(req.Stage)
	if !ok {
		fields["stage"] = append(fields["stage"],
			fmt.Sprintf("stage must be one of: %s", stageList()))
	}

	if len(fields) > 0 {
		handlers.RespondValidation(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	record, err := h.ledger.Create(r.Context(), CreateCommand{
		ImageID:      imageID,
		Stage:        stage,
		Observations: req.Observations,
		UserID:       caller.ID,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, record)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var filters Filters
	if raw := r.URL.Query().Get("image_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			handlers.RespondValidation(w, http.StatusBadRequest, "validation failed", handlers.FieldErrors{
				"image_id": {"image_id must be a valid uuid"},
			})
			return
		}
		filters.ImageID = &id
	}

	page, err := h.ledger.Page(r.Context(), pagination.FromQuery(r.URL.Query(), h.pageCfg), filters)
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

	record, err := h.ledger.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, record)
}

func stageList() string {
	stages := Stages()
	parts := make([]string, len(stages))
	for i, s := range stages {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

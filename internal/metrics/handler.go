package metrics

import (
	"log/slog"
	"net/http"

	"github.com/skinatlas/skinrest/pkg/handlers"
	"github.com/skinatlas/skinrest/pkg/routes"
)

// Handler serves the admin metrics endpoint.
type Handler struct {
	metrics System
	logger  *slog.Logger
}

// NewHandler creates a metrics handler.
func NewHandler(metrics System, logger *slog.Logger) *Handler {
	return &Handler{
		metrics: metrics,
		logger:  logger.With("handler", "metrics"),
	}
}

// Routes returns the route group mounted under the admin module.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "/metrics", Handler: h.Metrics},
		},
	}
}

func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	rng, fields, err := ParseRange(q.Get("from"), q.Get("to"))
	if len(fields) > 0 {
		handlers.RespondValidation(w, http.StatusBadRequest, "validation failed", fields)
		return
	}
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	report, err := h.metrics.Report(r.Context(), rng)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, report)
}

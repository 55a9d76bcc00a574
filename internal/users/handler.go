package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/skinatlas/skinrest/pkg/auth"
	"github.com/skinatlas/skinrest/pkg/handlers"
	"github.com/skinatlas/skinrest/pkg/routes"
)

// Handler serves the authentication endpoints and the admin user directory.
type Handler struct {
	users  System
	logger *slog.Logger
}

// NewHandler creates a user handler.
func NewHandler(users System, logger *slog.Logger) *Handler {
	return &Handler{
		users:  users,
		logger: logger.With("handler", "users"),
	}
}

// Routes returns the auth route group. Registration and login are public;
// token verification runs behind the given auth wrapper.
func (h *Handler) Routes(protect func(http.HandlerFunc) http.HandlerFunc) routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: http.MethodPost, Pattern: "/register", Handler: h.Register},
			{Method: http.MethodPost, Pattern: "/login", Handler: h.Login},
			{Method: http.MethodGet, Pattern: "/verify-token", Handler: protect(h.VerifyToken)},
		},
	}
}

// AdminRoutes returns the route group mounted under the admin module.
func (h *Handler) AdminRoutes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: http.MethodGet, Pattern: "/users", Handler: h.AdminList},
		},
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd RegisterCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	if fields := cmd.Validate(); fields != nil {
		handlers.RespondValidation(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	user, err := h.users.Register(r.Context(), cmd)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			handlers.RespondValidation(w, http.StatusBadRequest, "validation failed", handlers.FieldErrors{
				"email": {ErrDuplicateEmail.Error()},
			})
			return
		}
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var cmd LoginCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	fields := handlers.FieldErrors{}
	if cmd.Email == "" {
		fields["email"] = append(fields["email"], "email is required")
	}
	if cmd.Password == "" {
		fields["password"] = append(fields["password"], "password is required")
	}
	if len(fields) > 0 {
		handlers.RespondValidation(w, http.StatusBadRequest, "validation failed", fields)
		return
	}

	session, err := h.users.Login(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session)
}

// VerifyToken confirms the caller's token and echoes the account it belongs
// to. The auth middleware has already validated the token by the time this
// runs.
func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, auth.ErrTokenRequired)
		return
	}

	user, err := h.users.Find(r.Context(), id.ID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"user":  user,
	})
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"users":       list,
		"total_count": len(list),
	})
}

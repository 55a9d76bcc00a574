package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/skinatlas/skinrest/pkg/handlers"
)

// Verifier validates a raw bearer token and returns the caller identity.
type Verifier interface {
	Verify(raw string) (Identity, error)
}

// ActivityRecorder marks a user as active; called on every authenticated
// request to keep last_active current.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, id uuid.UUID) error
}

// Require returns middleware that rejects requests without a valid bearer
// token and stores the caller identity in the request context. When recorder
// is non-nil the caller's last-active timestamp is refreshed; failures there
// are logged but never fail the request.
func Require(v Verifier, recorder ActivityRecorder, logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With("middleware", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				handlers.RespondError(w, log, http.StatusUnauthorized, ErrTokenRequired)
				return
			}

			id, err := v.Verify(raw)
			if err != nil {
				handlers.RespondError(w, log, http.StatusUnauthorized, err)
				return
			}

			if recorder != nil {
				if err := recorder.RecordActivity(r.Context(), id.ID); err != nil {
					log.Warn("record activity failed", "user_id", id.ID, "error", err)
				}
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAdmin returns middleware that rejects authenticated non-admin
// callers with 403. It must run inside Require.
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	log := logger.With("middleware", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := FromContext(r.Context())
			if !ok {
				handlers.RespondError(w, log, http.StatusUnauthorized, ErrTokenRequired)
				return
			}
			if !id.Admin {
				handlers.RespondError(w, log, http.StatusForbidden, ErrAdminRequired)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

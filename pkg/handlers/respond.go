// Package handlers provides JSON response helpers shared by all HTTP handlers.
//
// Error responses always carry the shape
//
//	{"message": "...", "errors": {"field": ["...", ...]}}
//
// where errors is omitted when the failure is not attributable to fields.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// FieldErrors maps request field names to their validation messages.
type FieldErrors map[string][]string

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Message string      `json:"message"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

// RespondJSON writes data as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes a message-only error body.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error("request failed", "status", status, "error", err)
	RespondJSON(w, status, ErrorBody{Message: err.Error()})
}

// RespondValidation writes an error body with per-field messages.
func RespondValidation(w http.ResponseWriter, status int, message string, fields FieldErrors) {
	RespondJSON(w, status, ErrorBody{Message: message, Errors: fields})
}

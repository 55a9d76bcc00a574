package storage

import (
	"errors"
	"net/http"
)

// Storage errors surfaced to callers.
var (
	ErrNotFound   = errors.New("blob not found")
	ErrEmptyKey   = errors.New("blob key cannot be empty")
	ErrInvalidKey = errors.New("blob key contains invalid path segments")
)

// MapHTTPStatus maps storage errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmptyKey) || errors.Is(err, ErrInvalidKey) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

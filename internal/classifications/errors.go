package classifications

import (
	"errors"
	"net/http"
)

// Domain errors for ledger operations.
var (
	ErrNotFound      = errors.New("classification not found")
	ErrImageNotFound = errors.New("image not found")
	ErrInvalidStage  = errors.New("invalid stage")
)

// MapHTTPStatus maps ledger domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrImageNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidStage) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

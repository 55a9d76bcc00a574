package images

import (
	"errors"
	"net/http"
)

// Domain errors for image operations.
var (
	ErrNotFound        = errors.New("image not found")
	ErrDuplicateHash   = errors.New("image content already stored")
	ErrEmptyFile       = errors.New("file is empty")
	ErrUnsupportedType = errors.New("file is not a supported image type")
)

// MapHTTPStatus maps image domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmptyFile) || errors.Is(err, ErrUnsupportedType) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

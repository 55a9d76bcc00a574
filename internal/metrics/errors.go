package metrics

import (
	"errors"
	"net/http"
)

// Domain errors for metrics requests. ErrStoreTimeout is the only one worth
// retrying; the rest are deterministic for a given input.
var (
	ErrInvalidRange = errors.New("from must not be after to")
	ErrStoreTimeout = errors.New("metrics store timed out, retry later")
)

// MapHTTPStatus maps metrics domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidRange) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrStoreTimeout) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

package users

import (
	"errors"
	"net/http"
)

// Domain errors for user operations.
var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// MapHTTPStatus maps user domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicateEmail) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

package auth

import "errors"

// Authentication and authorization errors. Missing or invalid credentials map
// to 401; a valid non-admin token reaching an admin route maps to 403.
var (
	ErrTokenRequired = errors.New("authentication required")
	ErrTokenInvalid  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrAdminRequired = errors.New("admin privileges required")
)

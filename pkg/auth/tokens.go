// Package auth provides bearer-token issuance and verification, password
// hashing, and the request middleware that enforces authentication and the
// admin role.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity describes an authenticated caller.
type Identity struct {
	ID    uuid.UUID
	Email string
	Name  string
	Admin bool
}

// Claims is the JWT payload carried by issued tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
	Admin bool   `json:"is_admin"`
}

// Tokens issues and verifies HS256-signed bearer tokens.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokens creates a token service from the auth configuration.
func NewTokens(cfg *Config) *Tokens {
	return &Tokens{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TokenTTLDuration(),
	}
}

// Issue signs a token for the given identity, valid for the configured TTL.
func (t *Tokens) Issue(id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID.String(),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Email: id.Email,
		Name:  id.Name,
		Admin: id.Admin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a signed token and returns the caller identity.
func (t *Tokens) Verify(raw string) (Identity, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(
		raw,
		&claims,
		func(token *jwt.Token) (any, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenInvalid
	}
	if !token.Valid {
		return Identity{}, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, ErrTokenInvalid
	}

	return Identity{
		ID:    userID,
		Email: claims.Email,
		Name:  claims.Name,
		Admin: claims.Admin,
	}, nil
}

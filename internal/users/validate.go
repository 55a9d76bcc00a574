package users

import (
	"regexp"
	"strings"

	"github.com/skinatlas/skinrest/pkg/handlers"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hasDigit     = regexp.MustCompile(`\d`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
)

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks a registration command and returns per-field messages.
// An empty result means the command is acceptable.
func (cmd *RegisterCommand) Validate() handlers.FieldErrors {
	fields := handlers.FieldErrors{}

	email := NormalizeEmail(cmd.Email)
	switch {
	case email == "":
		fields["email"] = append(fields["email"], "email is required")
	case len(email) > 254 || !emailPattern.MatchString(email) || strings.Contains(email, ".."):
		fields["email"] = append(fields["email"], "invalid email format")
	}

	switch {
	case cmd.Password == "":
		fields["password"] = append(fields["password"], "password is required")
	case len(cmd.Password) < 8:
		fields["password"] = append(fields["password"], "password must be at least 8 characters long")
	case len(cmd.Password) > 128:
		fields["password"] = append(fields["password"], "password too long (max 128 characters)")
	default:
		if !hasDigit.MatchString(cmd.Password) {
			fields["password"] = append(fields["password"], "password must contain at least one digit")
		}
		if !hasLetter.MatchString(cmd.Password) {
			fields["password"] = append(fields["password"], "password must contain at least one letter")
		}
	}

	if strings.TrimSpace(cmd.Name) == "" {
		fields["name"] = append(fields["name"], "name is required")
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

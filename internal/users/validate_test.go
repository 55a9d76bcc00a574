package users_test

import (
	"testing"

	"github.com/skinatlas/skinrest/internal/users"
)

func TestRegisterCommandValidate(t *testing.T) {
	valid := func() users.RegisterCommand {
		return users.RegisterCommand{
			Email:    "nurse@example.com",
			Password: "sunscreen1",
			Name:     "Nurse Joy",
		}
	}

	tests := []struct {
		name      string
		mutate    func(*users.RegisterCommand)
		wantField string
	}{
		{"valid command", func(c *users.RegisterCommand) {}, ""},
		{"missing email", func(c *users.RegisterCommand) { c.Email = "" }, "email"},
		{"malformed email", func(c *users.RegisterCommand) { c.Email = "not-an-email" }, "email"},
		{"double dot email", func(c *users.RegisterCommand) { c.Email = "a..b@example.com" }, "email"},
		{"missing password", func(c *users.RegisterCommand) { c.Password = "" }, "password"},
		{"short password", func(c *users.RegisterCommand) { c.Password = "abc1" }, "password"},
		{"no digit", func(c *users.RegisterCommand) { c.Password = "onlyletters" }, "password"},
		{"no letter", func(c *users.RegisterCommand) { c.Password = "12345678" }, "password"},
		{"missing name", func(c *users.RegisterCommand) { c.Name = "  " }, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := valid()
			tt.mutate(&cmd)

			fields := cmd.Validate()
			if tt.wantField == "" {
				if fields != nil {
					t.Errorf("Validate() = %v, want nil", fields)
				}
				return
			}

			if len(fields[tt.wantField]) == 0 {
				t.Errorf("Validate() = %v, want messages for %q", fields, tt.wantField)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := users.NormalizeEmail("  Nurse@Example.COM "); got != "nurse@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

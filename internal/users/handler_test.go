package users_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/skinatlas/skinrest/internal/users"
	"github.com/skinatlas/skinrest/pkg/handlers"
)

type mockSystem struct {
	registerFn  func(ctx context.Context, cmd users.RegisterCommand) (users.User, error)
	loginFn     func(ctx context.Context, cmd users.LoginCommand) (users.Session, error)
	findFn      func(ctx context.Context, id uuid.UUID) (users.User, error)
	listFn      func(ctx context.Context) ([]users.User, error)
	countFn     func(ctx context.Context) (int, error)
	summariesFn func(ctx context.Context, ids []uuid.UUID) ([]users.Summary, error)
}

func (m *mockSystem) Register(ctx context.Context, cmd users.RegisterCommand) (users.User, error) {
	return m.registerFn(ctx, cmd)
}

func (m *mockSystem) Login(ctx context.Context, cmd users.LoginCommand) (users.Session, error) {
	return m.loginFn(ctx, cmd)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (users.User, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) RecordActivity(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (m *mockSystem) List(ctx context.Context) ([]users.User, error) {
	return m.listFn(ctx)
}

func (m *mockSystem) CountUsers(ctx context.Context) (int, error) {
	return m.countFn(ctx)
}

func (m *mockSystem) Summaries(ctx context.Context, ids []uuid.UUID) ([]users.Summary, error) {
	return m.summariesFn(ctx, ids)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegisterHandler(t *testing.T) {
	t.Run("valid registration returns 201", func(t *testing.T) {
		sys := &mockSystem{
			registerFn: func(_ context.Context, cmd users.RegisterCommand) (users.User, error) {
				return users.User{ID: uuid.New(), Email: cmd.Email, Name: cmd.Name}, nil
			},
		}
		h := users.NewHandler(sys, discard())

		body := `{"email":"nurse@example.com","password":"sunscreen1","name":"Nurse Joy"}`
		req := httptest.NewRequest("POST", "/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", rec.Code)
		}

		var got users.User
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Email != "nurse@example.com" || got.Name != "Nurse Joy" {
			t.Errorf("user = %+v", got)
		}
	})

	t.Run("invalid command returns field errors", func(t *testing.T) {
		h := users.NewHandler(&mockSystem{}, discard())

		body := `{"email":"bad","password":"short","name":""}`
		req := httptest.NewRequest("POST", "/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}

		var got handlers.ErrorBody
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		for _, field := range []string{"email", "password", "name"} {
			if len(got.Errors[field]) == 0 {
				t.Errorf("missing field errors for %q: %v", field, got.Errors)
			}
		}
	})

	t.Run("duplicate email returns field error", func(t *testing.T) {
		sys := &mockSystem{
			registerFn: func(context.Context, users.RegisterCommand) (users.User, error) {
				return users.User{}, users.ErrDuplicateEmail
			},
		}
		h := users.NewHandler(sys, discard())

		body := `{"email":"taken@example.com","password":"sunscreen1","name":"Nurse Joy"}`
		req := httptest.NewRequest("POST", "/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Register(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}

		var got handlers.ErrorBody
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(got.Errors["email"]) == 0 {
			t.Errorf("missing email field error: %v", got.Errors)
		}
	})
}

func TestLoginHandler(t *testing.T) {
	t.Run("valid credentials return a session", func(t *testing.T) {
		sys := &mockSystem{
			loginFn: func(_ context.Context, cmd users.LoginCommand) (users.Session, error) {
				return users.Session{
					Token: "signed-token",
					User:  users.User{Email: cmd.Email},
				}, nil
			},
		}
		h := users.NewHandler(sys, discard())

		body := `{"email":"nurse@example.com","password":"sunscreen1"}`
		req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		var got users.Session
		if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got.Token != "signed-token" {
			t.Errorf("token = %q", got.Token)
		}
	})

	t.Run("bad credentials return 401", func(t *testing.T) {
		sys := &mockSystem{
			loginFn: func(context.Context, users.LoginCommand) (users.Session, error) {
				return users.Session{}, users.ErrInvalidCredentials
			},
		}
		h := users.NewHandler(sys, discard())

		body := `{"email":"nurse@example.com","password":"wrong"}`
		req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("missing fields return validation errors", func(t *testing.T) {
		h := users.NewHandler(&mockSystem{}, discard())

		req := httptest.NewRequest("POST", "/login", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		h.Login(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestAdminList(t *testing.T) {
	sys := &mockSystem{
		listFn: func(context.Context) ([]users.User, error) {
			return []users.User{
				{ID: uuid.New(), Email: "a@example.com"},
				{ID: uuid.New(), Email: "b@example.com"},
			}, nil
		},
	}
	h := users.NewHandler(sys, discard())

	req := httptest.NewRequest("GET", "/users", nil)
	rec := httptest.NewRecorder()
	h.AdminList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got struct {
		Users      []users.User `json:"users"`
		TotalCount int          `json:"total_count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalCount != 2 || len(got.Users) != 2 {
		t.Errorf("total_count = %d, users = %d", got.TotalCount, len(got.Users))
	}
}

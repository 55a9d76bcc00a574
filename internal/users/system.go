package users

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/skinatlas/skinrest/pkg/auth"
)

// System exposes user domain operations. RecordActivity satisfies
// auth.ActivityRecorder so the auth middleware can refresh last_active.
type System interface {
	Register(ctx context.Context, cmd RegisterCommand) (User, error)
	Login(ctx context.Context, cmd LoginCommand) (Session, error)
	Find(ctx context.Context, id uuid.UUID) (User, error)
	RecordActivity(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]User, error)
	CountUsers(ctx context.Context) (int, error)
	Summaries(ctx context.Context, ids []uuid.UUID) ([]Summary, error)
}

type system struct {
	repo   *Repository
	tokens *auth.Tokens
	logger *slog.Logger
}

// New creates the user system.
func New(db *sql.DB, tokens *auth.Tokens, logger *slog.Logger) System {
	return &system{
		repo:   NewRepository(db),
		tokens: tokens,
		logger: logger.With("system", "users"),
	}
}

func (s *system) Register(ctx context.Context, cmd RegisterCommand) (User, error) {
	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return User{}, err
	}

	user, err := s.repo.Create(ctx, cmd, hash)
	if err != nil {
		return User{}, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *system) Login(ctx context.Context, cmd LoginCommand) (Session, error) {
	user, hash, err := s.repo.FindByEmail(ctx, cmd.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}

	if !user.Active || !auth.CheckPassword(cmd.Password, hash) {
		return Session{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.Identity{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Admin: user.Admin,
	})
	if err != nil {
		return Session{}, err
	}

	if err := s.repo.RecordActivity(ctx, user.ID); err != nil {
		s.logger.Warn("record activity on login failed", "user_id", user.ID, "error", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return Session{Token: token, User: user}, nil
}

func (s *system) Find(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.Find(ctx, id)
}

func (s *system) RecordActivity(ctx context.Context, id uuid.UUID) error {
	return s.repo.RecordActivity(ctx, id)
}

func (s *system) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *system) CountUsers(ctx context.Context) (int, error) {
	return s.repo.CountUsers(ctx)
}

func (s *system) Summaries(ctx context.Context, ids []uuid.UUID) ([]Summary, error) {
	return s.repo.Summaries(ctx, ids)
}

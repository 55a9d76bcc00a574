package users

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/skinatlas/skinrest/pkg/query"
	"github.com/skinatlas/skinrest/pkg/repository"
)

// Repository provides data access for user accounts.
type Repository struct {
	db         *sql.DB
	projection *query.ProjectionMap
}

// NewRepository creates a user repository backed by the given connection pool.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db:         db,
		projection: projection(),
	}
}

// Create inserts a new account. Emails are stored normalized; a unique
// violation on the email column maps to ErrDuplicateEmail.
func (r *Repository) Create(ctx context.Context, cmd RegisterCommand, passwordHash string) (User, error) {
	user := User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(cmd.Email),
		Name:      strings.TrimSpace(cmd.Name),
		Coren:     cmd.Coren,
		Specialty: cmd.Specialty,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}

	const insert = `
		INSERT INTO public.users (id, email, name, coren, specialty, password_hash, is_admin, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, insert,
		user.ID,
		user.Email,
		user.Name,
		user.Coren,
		user.Specialty,
		passwordHash,
		user.Admin,
		user.Active,
		user.CreatedAt,
	)
	if err != nil {
		return User{}, repository.MapError(err, ErrNotFound, ErrDuplicateEmail)
	}

	return user, nil
}

// Find returns the account with the given id.
func (r *Repository) Find(ctx context.Context, id uuid.UUID) (User, error) {
	q, args := query.NewBuilder(r.projection).BuildSingle("id", id)

	user, err := repository.QueryOne(ctx, r.db, q, args, scanUser)
	if err != nil {
		return User{}, repository.MapError(err, ErrNotFound, ErrDuplicateEmail)
	}
	return user, nil
}

// FindByEmail returns the account and its password hash for credential checks.
func (r *Repository) FindByEmail(ctx context.Context, email string) (User, string, error) {
	q := fmt.Sprintf(
		"SELECT %s, u.password_hash FROM %s WHERE u.email = $1",
		r.projection.Columns(),
		r.projection.From(),
	)

	var (
		u    User
		hash string
	)
	err := r.db.QueryRowContext(ctx, q, NormalizeEmail(email)).Scan(
		&u.ID, &u.Email, &u.Name, &u.Coren, &u.Specialty,
		&u.Admin, &u.Active, &u.CreatedAt, &u.LastActive,
		&hash,
	)
	if err != nil {
		return User{}, "", repository.MapError(err, ErrNotFound, ErrDuplicateEmail)
	}

	return u, hash, nil
}

// RecordActivity refreshes the account's last-active timestamp.
func (r *Repository) RecordActivity(ctx context.Context, id uuid.UUID) error {
	const update = `UPDATE public.users SET last_active = $1 WHERE id = $2`

	err := repository.ExecExpectOne(ctx, r.db, update, time.Now().UTC(), id)
	return repository.MapError(err, ErrNotFound, ErrDuplicateEmail)
}

// List returns every account, newest first.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	q, args := query.
		NewBuilder(r.projection, query.SortField{Field: "created_at", Descending: true}).
		Build()

	return repository.QueryMany(ctx, r.db, q, args, scanUser)
}

// CountUsers returns the total number of registered accounts.
func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	q, args := query.NewBuilder(r.projection).BuildCount()

	var count int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// Summaries returns slim projections for the given account ids. Unknown ids
// are silently absent from the result.
func (r *Repository) Summaries(ctx context.Context, ids []uuid.UUID) ([]Summary, error) {
	if len(ids) == 0 {
		return []Summary{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	q := fmt.Sprintf(
		"SELECT u.id, u.name, u.email, u.last_active FROM %s WHERE u.id IN (%s)",
		r.projection.From(),
		strings.Join(placeholders, ", "),
	)

	return repository.QueryMany(ctx, r.db, q, args, scanSummary)
}

package users

import (
	"github.com/skinatlas/skinrest/pkg/query"
	"github.com/skinatlas/skinrest/pkg/repository"
)

func projection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "users", "u").
		Project("id", "id").
		Project("email", "email").
		Project("name", "name").
		Project("coren", "coren").
		Project("specialty", "specialty").
		Project("is_admin", "is_admin").
		Project("is_active", "is_active").
		Project("created_at", "created_at").
		Project("last_active", "last_active")
}

func scanUser(s repository.Scanner) (User, error) {
	var u User
	err := s.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.Coren,
		&u.Specialty,
		&u.Admin,
		&u.Active,
		&u.CreatedAt,
		&u.LastActive,
	)
	return u, err
}

func scanSummary(s repository.Scanner) (Summary, error) {
	var sum Summary
	err := s.Scan(&sum.ID, &sum.Name, &sum.Email, &sum.LastActive)
	return sum, err
}

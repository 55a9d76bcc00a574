package classifications

import (
	"github.com/skinatlas/skinrest/pkg/query"
	"github.com/skinatlas/skinrest/pkg/repository"
)

func projection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "classifications", "c").
		Project("id", "id").
		Project("image_id", "image_id").
		Project("stage", "stage").
		Project("observations", "observations").
		Project("user_id", "user_id").
		Project("created_at", "created_at")
}

func scanClassification(s repository.Scanner) (Classification, error) {
	var c Classification
	err := s.Scan(
		&c.ID,
		&c.ImageID,
		&c.Stage,
		&c.Observations,
		&c.UserID,
		&c.CreatedAt,
	)
	return c, err
}

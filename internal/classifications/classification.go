// Package classifications implements the append-only classification ledger:
// each record ties one image to one stage, one author, and a timestamp.
// Records are never updated or deleted.
package classifications

import (
	"time"

	"github.com/google/uuid"
)

// Classification is one ledger entry.
type Classification struct {
	ID           uuid.UUID `json:"id"`
	ImageID      uuid.UUID `json:"image_id"`
	Stage        Stage     `json:"stage"`
	Observations *string   `json:"observations"`
	UserID       uuid.UUID `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateCommand carries the data for a new ledger entry. UserID is the
// authenticated author, never client-supplied.
type CreateCommand struct {
	ImageID      uuid.UUID
	Stage        Stage
	Observations *string
	UserID       uuid.UUID
}

// Filters narrows ledger listings.
type Filters struct {
	ImageID *uuid.UUID
}

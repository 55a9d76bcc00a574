// Package metrics computes the admin dashboard summary over the
// classification ledger and user population. Reports are derived per request,
// never stored, and read-only: identical inputs against an unchanged ledger
// produce byte-identical JSON.
package metrics

import (
	"time"

	"github.com/google/uuid"

	"github.com/skinatlas/skinrest/internal/classifications"
)

// Report is the aggregated dashboard payload.
//
// TotalUsers is a population snapshot and ignores the date range. The image
// counts partition by presence of at least one classification, so
// ClassifiedImagesCount + UnclassifiedImagesCount == TotalImages always.
// PerCategory carries exactly the six stage keys, zero counts included.
// Daily appears only when a range was supplied.
type Report struct {
	TotalUsers              int                           `json:"total_users"`
	TotalImages             int                           `json:"total_images"`
	ClassifiedImagesCount   int                           `json:"classified_images_count"`
	UnclassifiedImagesCount int                           `json:"unclassified_images_count"`
	PerCategory             map[classifications.Stage]int `json:"classifications_per_category"`
	ByUser                  []UserActivity                `json:"classifications_by_user"`
	Daily                   []DayCount                    `json:"daily_classifications,omitempty"`
}

// UserActivity is one row of the per-user breakdown. Only users with at least
// one classification in range appear.
type UserActivity struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	ClassificationCount int        `json:"classification_count"`
	LastActive          *time.Time `json:"last_active"`
}

// DayCount is one calendar day of the daily breakdown.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

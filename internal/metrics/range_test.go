package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/skinatlas/skinrest/internal/metrics"
)

func TestParseRange(t *testing.T) {
	t.Run("both omitted means unbounded", func(t *testing.T) {
		rng, fields, err := metrics.ParseRange("", "")
		if err != nil || fields != nil {
			t.Fatalf("err = %v, fields = %v", err, fields)
		}
		if rng.Set {
			t.Error("range should be unset")
		}
	})

	t.Run("valid range", func(t *testing.T) {
		rng, fields, err := metrics.ParseRange("2024-01-01", "2024-01-31")
		if err != nil || fields != nil {
			t.Fatalf("err = %v, fields = %v", err, fields)
		}
		if !rng.Set {
			t.Fatal("range should be set")
		}
		if rng.Days() != 31 {
			t.Errorf("Days() = %d, want 31", rng.Days())
		}
	})

	t.Run("single day range", func(t *testing.T) {
		rng, _, err := metrics.ParseRange("2024-06-15", "2024-06-15")
		if err != nil {
			t.Fatal(err)
		}
		if rng.Days() != 1 {
			t.Errorf("Days() = %d, want 1", rng.Days())
		}
	})

	t.Run("one-sided range yields field error", func(t *testing.T) {
		_, fields, err := metrics.ParseRange("2024-01-01", "")
		if err != nil {
			t.Fatal(err)
		}
		if len(fields["to"]) == 0 {
			t.Errorf("fields = %v, want to error", fields)
		}
	})

	t.Run("malformed dates yield field errors", func(t *testing.T) {
		tests := []struct {
			name, from, to, field string
		}{
			{"garbage from", "not-a-date", "2024-01-31", "from"},
			{"garbage to", "2024-01-01", "31/01/2024", "to"},
			{"wrong layout", "2024-1-1", "2024-01-31", "from"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, fields, err := metrics.ParseRange(tt.from, tt.to)
				if err != nil {
					t.Fatal(err)
				}
				if len(fields[tt.field]) == 0 {
					t.Errorf("fields = %v, want %s error", fields, tt.field)
				}
			})
		}
	})

	t.Run("from after to is invalid", func(t *testing.T) {
		_, fields, err := metrics.ParseRange("2024-02-01", "2024-01-01")
		if !errors.Is(err, metrics.ErrInvalidRange) {
			t.Errorf("err = %v, want ErrInvalidRange", err)
		}
		if fields != nil {
			t.Errorf("fields = %v, want nil", fields)
		}
	})
}

func TestRangeBounds(t *testing.T) {
	t.Run("unset range has nil bounds", func(t *testing.T) {
		from, to := (metrics.Range{}).Bounds()
		if from != nil || to != nil {
			t.Errorf("bounds = (%v, %v), want nil", from, to)
		}
	})

	t.Run("to bound is exclusive next midnight", func(t *testing.T) {
		rng, _, err := metrics.ParseRange("2024-01-01", "2024-01-02")
		if err != nil {
			t.Fatal(err)
		}

		from, to := rng.Bounds()
		wantFrom := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		wantTo := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
		if !from.Equal(wantFrom) || !to.Equal(wantTo) {
			t.Errorf("bounds = (%v, %v), want (%v, %v)", from, to, wantFrom, wantTo)
		}
	})
}

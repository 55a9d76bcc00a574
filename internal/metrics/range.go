package metrics

import (
	"time"

	"github.com/skinatlas/skinrest/pkg/handlers"
)

const dateLayout = "2006-01-02"

// Range is an inclusive calendar date range. A zero Range (Set false) means
// the whole ledger history.
type Range struct {
	From time.Time
	To   time.Time
	Set  bool
}

// ParseRange validates the raw from/to query parameters. Malformed dates and
// a one-sided range come back as field errors; from after to comes back as
// ErrInvalidRange. Nothing reaches the query layer on failure.
func ParseRange(fromRaw, toRaw string) (Range, handlers.FieldErrors, error) {
	if fromRaw == "" && toRaw == "" {
		return Range{}, nil, nil
	}

	fields := handlers.FieldErrors{}
	if fromRaw == "" {
		fields["from"] = append(fields["from"], "from is required when to is supplied")
	}
	if toRaw == "" {
		fields["to"] = append(fields["to"], "to is required when from is supplied")
	}
	if len(fields) > 0 {
		return Range{}, fields, nil
	}

	from, err := time.ParseInLocation(dateLayout, fromRaw, time.UTC)
	if err != nil {
		fields["from"] = append(fields["from"], "invalid date format, expected YYYY-MM-DD")
	}
	to, err := time.ParseInLocation(dateLayout, toRaw, time.UTC)
	if err != nil {
		fields["to"] = append(fields["to"], "invalid date format, expected YYYY-MM-DD")
	}
	if len(fields) > 0 {
		return Range{}, fields, nil
	}

	if from.After(to) {
		return Range{}, nil, ErrInvalidRange
	}

	return Range{From: from, To: to, Set: true}, nil, nil
}

// Bounds returns the half-open time window [from, to+1day) for SQL filters,
// or nil bounds when the range is unset.
func (r Range) Bounds() (*time.Time, *time.Time) {
	if !r.Set {
		return nil, nil
	}
	from := r.From
	to := r.To.AddDate(0, 0, 1)
	return &from, &to
}

// Days returns the number of calendar days the range spans, inclusive.
func (r Range) Days() int {
	if !r.Set {
		return 0
	}
	return int(r.To.Sub(r.From).Hours()/24) + 1
}

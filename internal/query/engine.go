package query

import (
	"fmt"
	"strings"

	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/dataset"
)

// DefaultPageSize is used when a request does not specify page_size.
const DefaultPageSize = 10

// Filter is the fixed predicate set applied to the derived table. All fields
// are optional; set fields combine with AND.
type Filter struct {
	Search string   // case-insensitive substring match on student name
	MinGPA *float64 // gpa >= MinGPA
	MaxGPA *float64 // gpa <= MaxGPA
}

// Matches reports whether a record satisfies every set predicate.
func (f Filter) Matches(r *dataset.Record) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.MinGPA != nil && r.GPA < *f.MinGPA {
		return false
	}
	if f.MaxGPA != nil && r.GPA > *f.MaxGPA {
		return false
	}
	return true
}

// ValidationError reports invalid query parameters. It is local to one
// request and never aborts the engine.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// PageRequest holds pagination parameters. Both values must be positive;
// there is no silent clamping.
type PageRequest struct {
	Page     int
	PageSize int
}

// Validate checks the pagination parameters.
func (p PageRequest) Validate() error {
	if p.Page < 1 {
		return &ValidationError{Field: "page", Message: "must be >= 1", Value: p.Page}
	}
	if p.PageSize < 1 {
		return &ValidationError{Field: "page_size", Message: "must be >= 1", Value: p.PageSize}
	}
	return nil
}

// Result is one page of matching records plus the total-match count the
// caller needs for pagination UI.
type Result struct {
	Records  []dataset.Record
	Total    int
	Page     int
	PageSize int
}

// TotalPages returns the number of pages the full match set spans.
func (r *Result) TotalPages() int {
	if r.Total == 0 {
		return 0
	}
	return (r.Total + r.PageSize - 1) / r.PageSize
}

// Select applies the filter to the snapshot and returns the requested page.
// Records come back in the snapshot's stable order (student id ascending),
// sliced to [(page-1)*size, page*size). A page past the end of the match set
// is an empty page, not an error.
func Select(snap *dataset.Snapshot, f Filter, p PageRequest) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	matched := filterRecords(snap, f)

	start := (p.Page - 1) * p.PageSize
	end := start + p.PageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return &Result{
		Records:  matched[start:end],
		Total:    len(matched),
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}

// filterRecords returns the matching records in snapshot order. The snapshot
// is immutable, so the result shares its backing array safely.
func filterRecords(snap *dataset.Snapshot, f Filter) []dataset.Record {
	if f.Search == "" && f.MinGPA == nil && f.MaxGPA == nil {
		return snap.Records
	}
	matched := make([]dataset.Record, 0)
	for i := range snap.Records {
		if f.Matches(&snap.Records[i]) {
			matched = append(matched, snap.Records[i])
		}
	}
	return matched
}

package http

import (
	"context"
	"io"

	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/dataset"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/query"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/services"
)

// StudentService is the service surface the handlers need. Defined here so
// handler tests can substitute a mock.
type StudentService interface {
	Refresh(ctx context.Context) (*dataset.Snapshot, error)
	Snapshot() (*dataset.Snapshot, error)
	Query(ctx context.Context, f query.Filter, p query.PageRequest) (*query.Result, error)
	Stats(ctx context.Context, f query.Filter) (query.Stats, error)
	Describe(ctx context.Context) (*query.Description, error)
	Sample(ctx context.Context, n int) ([]dataset.Record, error)
	ExportCSV(ctx context.Context, w io.Writer) error
	ExportExcel(ctx context.Context, w io.Writer) error
	Health() services.HealthStatus
}

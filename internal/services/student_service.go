package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/dataset"
	apierrors "github.com/thierryrudaseswa/ClassroomSubTracker/internal/errors"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/exporter"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/metrics"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/query"
)

// Loader supplies raw batches to the pipeline. Implemented by the postgres
// and synthetic stores.
type Loader interface {
	LoadBatch(ctx context.Context) ([]dataset.RawRecord, []dataset.ChildRecord, error)
}

// StudentService owns the dataset lifecycle: it refreshes snapshots from the
// loader and serves all read operations against the published snapshot.
type StudentService struct {
	loader  Loader
	holder  *dataset.Holder
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time

	// refreshMu serializes refreshes; reads never take it.
	refreshMu sync.Mutex
}

// Option configures a StudentService.
type Option func(*StudentService)

// WithClock overrides the service clock, used by tests and by feature
// synthesis for days_enrolled.
func WithClock(now func() time.Time) Option {
	return func(s *StudentService) {
		s.now = now
	}
}

// NewStudentService creates the service. No snapshot exists until the first
// Refresh succeeds.
func NewStudentService(loader Loader, m *metrics.Metrics, logger *slog.Logger, opts ...Option) *StudentService {
	s := &StudentService{
		loader:  loader,
		holder:  &dataset.Holder{},
		metrics: m,
		logger:  logger.With(slog.String("service", "student")),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh loads a raw batch, runs the full pipeline, and atomically publishes
// the result. On any failure the previously published snapshot stays live.
func (s *StudentService) Refresh(ctx context.Context) (*dataset.Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := s.now()

	students, enrollments, err := s.loader.LoadBatch(ctx)
	if err != nil {
		s.metrics.SnapshotBuilds.WithLabelValues("load_error").Inc()
		return nil, fmt.Errorf("load batch: %w", err)
	}

	snap, err := dataset.Build(students, enrollments, s.now())
	if err != nil {
		s.metrics.SnapshotBuilds.WithLabelValues("build_error").Inc()
		s.logger.ErrorContext(ctx, "snapshot build failed",
			slog.String("error", err.Error()),
			slog.Int("students", len(students)),
		)
		return nil, apierrors.NewDatasetError("build snapshot", err).
			WithContext("students", len(students))
	}

	s.holder.Publish(snap)

	duration := s.now().Sub(start)
	s.metrics.SnapshotBuilds.WithLabelValues("success").Inc()
	s.metrics.BuildDuration.Observe(duration.Seconds())
	s.metrics.SnapshotRecords.Set(float64(snap.Len()))
	s.metrics.ImputedValues.WithLabelValues("gpa").Add(float64(snap.Imputation.GPAImputed))
	s.metrics.ImputedValues.WithLabelValues("attendance_rate").Add(float64(snap.Imputation.AttendanceImputed))

	s.logger.InfoContext(ctx, "snapshot published",
		slog.String("batch_id", snap.BatchID),
		slog.Int("records", snap.Len()),
		slog.Duration("duration", duration),
	)
	return snap, nil
}

// Snapshot returns the current snapshot, or ErrNoSnapshot before the first
// refresh.
func (s *StudentService) Snapshot() (*dataset.Snapshot, error) {
	snap := s.holder.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// Query serves a filtered, paginated page of student records.
func (s *StudentService) Query(ctx context.Context, f query.Filter, p query.PageRequest) (*query.Result, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	s.metrics.QueriesTotal.Inc()
	return query.Select(snap, f, p)
}

// Stats computes aggregates over the filtered record set.
func (s *StudentService) Stats(ctx context.Context, f query.Filter) (query.Stats, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return query.Stats{}, err
	}
	return query.Summarize(snap, f), nil
}

// Describe returns per-column summaries for the whole snapshot.
func (s *StudentService) Describe(ctx context.Context) (*query.Description, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return query.Describe(snap), nil
}

// Sample returns the first n records of the snapshot.
func (s *StudentService) Sample(ctx context.Context, n int) ([]dataset.Record, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	if n > snap.Len() {
		n = snap.Len()
	}
	return snap.Records[:n], nil
}

// ExportCSV streams the snapshot as CSV.
func (s *StudentService) ExportCSV(ctx context.Context, w io.Writer) error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	s.metrics.ExportsTotal.WithLabelValues("csv").Inc()
	if err := exporter.WriteCSV(w, snap); err != nil {
		return apierrors.NewExportError("write csv", err)
	}
	return nil
}

// ExportExcel streams the snapshot as an xlsx workbook.
func (s *StudentService) ExportExcel(ctx context.Context, w io.Writer) error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	s.metrics.ExportsTotal.WithLabelValues("xlsx").Inc()
	if err := exporter.WriteExcel(w, snap); err != nil {
		return apierrors.NewExportError("write xlsx", err)
	}
	return nil
}

// Health reports snapshot availability for the health endpoint.
func (s *StudentService) Health() HealthStatus {
	snap := s.holder.Load()
	if snap == nil {
		return HealthStatus{Status: "degraded", Detail: "no snapshot published"}
	}
	builtAt := snap.BuiltAt
	return HealthStatus{
		Status:  "healthy",
		BatchID: snap.BatchID,
		BuiltAt: &builtAt,
		Records: snap.Len(),
	}
}

// HealthStatus describes dataset availability.
type HealthStatus struct {
	Status  string     `json:"status"`
	Detail  string     `json:"detail,omitempty"`
	BatchID string     `json:"batch_id,omitempty"`
	BuiltAt *time.Time `json:"built_at,omitempty"`
	Records int        `json:"records"`
}

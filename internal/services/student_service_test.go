package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/dataset"
	apierrors "github.com/thierryrudaseswa/ClassroomSubTracker/internal/errors"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/metrics"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/query"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/shared/testutil"
)

// stubLoader returns a fixed batch or error.
type stubLoader struct {
	students    []dataset.RawRecord
	enrollments []dataset.ChildRecord
	err         error
	calls       int
}

func (l *stubLoader) LoadBatch(ctx context.Context) ([]dataset.RawRecord, []dataset.ChildRecord, error) {
	l.calls++
	if l.err != nil {
		return nil, nil, l.err
	}
	return l.students, l.enrollments, nil
}

func testLoader() *stubLoader {
	gpa := func(v float64) *float64 { return &v }
	enrolled := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	return &stubLoader{
		students: []dataset.RawRecord{
			{StudentID: 1, Name: "Alice", Age: 16, GradeLevel: 10, EnrollmentDate: enrolled, GPA: gpa(3.5), AttendanceRate: gpa(0.9)},
			{StudentID: 2, Name: "Bob", Age: 17, GradeLevel: 11, EnrollmentDate: enrolled, GPA: gpa(2.5), AttendanceRate: gpa(0.8)},
			{StudentID: 3, Name: "Cara", Age: 18, GradeLevel: 12, EnrollmentDate: enrolled, GPA: nil, AttendanceRate: gpa(0.7)},
			{StudentID: 4, Name: "Dan", Age: 19, GradeLevel: 12, EnrollmentDate: enrolled, GPA: gpa(3.0), AttendanceRate: nil},
		},
		enrollments: []dataset.ChildRecord{
			{StudentID: 1, SubjectName: "Math", Grade: "A"},
			{StudentID: 1, SubjectName: "Biology", Grade: "B"},
			{StudentID: 2, SubjectName: "Math", Grade: "C"},
			{StudentID: 3, SubjectName: "History", Grade: "B"},
		},
	}
}

func newTestService(t *testing.T, loader Loader) *StudentService {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	return NewStudentService(loader, m, logger, WithClock(func() time.Time { return now }))
}

func TestStudentService_ReadsBeforeRefresh(t *testing.T) {
	svc := newTestService(t, testLoader())

	_, err := svc.Snapshot()
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = svc.Query(context.Background(), query.Filter{}, query.PageRequest{Page: 1, PageSize: 10})
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = svc.Stats(context.Background(), query.Filter{})
	assert.ErrorIs(t, err, ErrNoSnapshot)

	assert.ErrorIs(t, svc.ExportCSV(context.Background(), io.Discard), ErrNoSnapshot)

	health := svc.Health()
	assert.Equal(t, "degraded", health.Status)
}

func TestStudentService_RefreshPublishes(t *testing.T) {
	svc := newTestService(t, testLoader())

	snap, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Len())
	assert.NotEmpty(t, snap.BatchID)

	got, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Same(t, snap, got)

	health := svc.Health()
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, snap.BatchID, health.BatchID)
	assert.Equal(t, 4, health.Records)
}

func TestStudentService_RefreshFailureKeepsOldSnapshot(t *testing.T) {
	loader := testLoader()
	svc := newTestService(t, loader)

	first, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	loader.err = errors.New("connection refused")
	_, err = svc.Refresh(context.Background())
	require.Error(t, err)

	// The failed refresh must not disturb the published snapshot.
	got, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestStudentService_RefreshLogging(t *testing.T) {
	logger, captured := testutil.NewTestLogger(t)
	loader := testLoader()
	svc := NewStudentService(loader, metrics.New(prometheus.NewRegistry()), logger)

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	assert.True(t, captured.ContainsMessage(slog.LevelInfo, "snapshot published"))
	assert.True(t, captured.ContainsAttr("records", int64(4)))

	loader.err = errors.New("connection refused")
	_, err = svc.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, captured.ContainsMessage(slog.LevelError, "snapshot build failed"))
}

func TestStudentService_RefreshAbortOnOrphanEnrollment(t *testing.T) {
	loader := testLoader()
	loader.enrollments = append(loader.enrollments, dataset.ChildRecord{
		StudentID: 999, SubjectName: "Math", Grade: "A",
	})
	svc := newTestService(t, loader)

	_, err := svc.Refresh(context.Background())
	require.Error(t, err)

	// The failure is classified as a dataset error and still exposes the
	// underlying integrity violation.
	var appErr *apierrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apierrors.ErrTypeDataset, appErr.Type)
	var ie *dataset.IntegrityError
	assert.ErrorAs(t, err, &ie)

	_, err = svc.Snapshot()
	assert.ErrorIs(t, err, ErrNoSnapshot)
}

func TestStudentService_Query(t *testing.T) {
	svc := newTestService(t, testLoader())
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	res, err := svc.Query(context.Background(), query.Filter{Search: "ali"}, query.PageRequest{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Alice", res.Records[0].Name)
}

func TestStudentService_Stats(t *testing.T) {
	svc := newTestService(t, testLoader())
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background(), query.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Count)
	require.NotNil(t, stats.AverageGPA)
	assert.InDelta(t, 3.0, *stats.AverageGPA, 1e-9)
}

func TestStudentService_Sample(t *testing.T) {
	svc := newTestService(t, testLoader())
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	sample, err := svc.Sample(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, sample, 2)

	// n larger than the snapshot is clamped.
	sample, err = svc.Sample(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, sample, 4)
}

func TestStudentService_Describe(t *testing.T) {
	svc := newTestService(t, testLoader())
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	desc, err := svc.Describe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, desc.TotalRecords)
	assert.Equal(t, 1, desc.NullCounts.GPA)
	assert.Equal(t, 1, desc.NullCounts.AttendanceRate)
}

func TestStudentService_ExportCSV(t *testing.T) {
	svc := newTestService(t, testLoader())
	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf))
	assert.Contains(t, buf.String(), "student_id")
	assert.Contains(t, buf.String(), "Alice")
}

package query

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/dataset"
)

func TestDescribe(t *testing.T) {
	snap := testSnapshot(t)

	desc := Describe(snap)
	assert.Equal(t, 5, desc.TotalRecords)
	assert.Equal(t, snap.BatchID, desc.BatchID)

	// Null counts are the raw batch's, before imputation.
	assert.Equal(t, 1, desc.NullCounts.GPA)
	assert.Equal(t, 1, desc.NullCounts.AttendanceRate)

	assert.Contains(t, desc.Columns, "performance_score")
	assert.Contains(t, desc.Columns, "age_group")

	gpa, ok := desc.Numeric["gpa"]
	require.True(t, ok)
	assert.Equal(t, 5, gpa.Count)
	assert.InDelta(t, 2.5, gpa.Min, 1e-9)
	assert.InDelta(t, 4.0, gpa.Max, 1e-9)
	assert.InDelta(t, 3.25, gpa.Mean, 1e-9)
	assert.Greater(t, gpa.StdDev, 0.0)
}

func TestDescribe_NaNExcludedFromMoments(t *testing.T) {
	snap := testSnapshot(t)

	// Students 3 and 5 have no grades, so their average_grade_points is NaN
	// and only the three graded students count.
	agp, ok := Describe(snap).Numeric["average_grade_points"]
	require.True(t, ok)
	assert.Equal(t, 3, agp.Count)
	assert.False(t, math.IsNaN(agp.Mean))
	assert.InDelta(t, 2.0, agp.Min, 1e-9)
	assert.InDelta(t, 4.0, agp.Max, 1e-9)
	assert.InDelta(t, (4.0+2.0+3.0)/3, agp.Mean, 1e-9)
}

func TestDescribe_AllNaNColumnZeroed(t *testing.T) {
	enrolled := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	students := []dataset.RawRecord{
		{StudentID: 1, Name: "Alice", Age: 16, GradeLevel: 10, EnrollmentDate: enrolled, GPA: fptr(3.0), AttendanceRate: fptr(0.9)},
	}
	snap, err := dataset.Build(students, nil, time.Now())
	require.NoError(t, err)

	agp := Describe(snap).Numeric["average_grade_points"]
	assert.Equal(t, ColumnSummary{}, agp)
}

package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_FullPipeline(t *testing.T) {
	students := testStudents()
	students[1].GPA = nil // Alice's gpa gets imputed
	enrollments := []ChildRecord{
		{StudentID: 1, SubjectName: "Mathematics", Grade: "A"},
		{StudentID: 2, SubjectName: "Physics", Grade: "C"},
		{StudentID: 3, SubjectName: "History", Grade: "B"},
	}
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	snap, err := Build(students, enrollments, now)
	require.NoError(t, err)

	assert.NotEmpty(t, snap.BatchID)
	assert.Equal(t, now, snap.BuiltAt)
	assert.Equal(t, 3, snap.Len())

	// Null counts reflect the raw batch, before imputation.
	assert.Equal(t, 1, snap.Nulls.GPA)
	assert.Equal(t, 0, snap.Nulls.AttendanceRate)
	assert.Equal(t, 1, snap.Imputation.GPAImputed)

	// Records sorted by student id.
	for i := 1; i < len(snap.Records); i++ {
		assert.Less(t, snap.Records[i-1].StudentID, snap.Records[i].StudentID)
	}

	// Quartile and tercile cuts are published with the snapshot.
	assert.Len(t, snap.Cuts.GPA, 3)
	assert.Len(t, snap.Cuts.Attendance, 2)
}

func TestBuild_StageErrorsAbortBatch(t *testing.T) {
	now := time.Now()

	t.Run("orphan enrollment", func(t *testing.T) {
		_, err := Build(testStudents(), []ChildRecord{
			{StudentID: 42, SubjectName: "Mathematics", Grade: "A"},
		}, now)
		var ie *IntegrityError
		require.ErrorAs(t, err, &ie)
	})

	t.Run("all null column", func(t *testing.T) {
		students := testStudents()
		for i := range students {
			students[i].GPA = nil
		}
		_, err := Build(students, nil, now)
		var imp *ImputationError
		require.ErrorAs(t, err, &imp)
	})

	t.Run("bad grade letter", func(t *testing.T) {
		_, err := Build(testStudents(), []ChildRecord{
			{StudentID: 1, SubjectName: "Mathematics", Grade: "Z"},
		}, now)
		var ie *IntegrityError
		require.ErrorAs(t, err, &ie)
		assert.Equal(t, "grade", ie.Field)
	})
}

func TestBuild_DistinctBatchIDs(t *testing.T) {
	now := time.Now()
	a, err := Build(testStudents(), nil, now)
	require.NoError(t, err)
	b, err := Build(testStudents(), nil, now)
	require.NoError(t, err)
	assert.NotEqual(t, a.BatchID, b.BatchID)
}

func TestHolder(t *testing.T) {
	var h Holder
	assert.Nil(t, h.Load())

	snap, err := Build(testStudents(), nil, time.Now())
	require.NoError(t, err)

	h.Publish(snap)
	assert.Same(t, snap, h.Load())

	next, err := Build(testStudents(), nil, time.Now())
	require.NoError(t, err)
	h.Publish(next)
	assert.Same(t, next, h.Load())
}

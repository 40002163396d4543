package exporter

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/dataset"
)

func testSnapshot() *dataset.Snapshot {
	enrolled := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	return &dataset.Snapshot{
		BatchID: "batch-1",
		BuiltAt: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Records: []dataset.Record{
			{
				CleanRecord: dataset.CleanRecord{
					StudentID:      1,
					Name:           "Alice Johnson",
					Age:            16,
					GradeLevel:     10,
					EnrollmentDate: enrolled,
					GPA:            3.5,
					AttendanceRate: 0.92,
					Subjects:       []string{"Biology", "Math"},
					Grades:         []string{"A", "B"},
				},
				DerivedFeatures: dataset.DerivedFeatures{
					DaysEnrolled:       136,
					NumSubjects:        2,
					AverageGradePoints: 3.5,
					AcademicStatus:     dataset.StatusGood,
					AttendanceCategory: dataset.AttendanceHigh,
					AgeGroup:           dataset.AgeJunior,
					PerformanceScore:   2.726,
				},
			},
			{
				CleanRecord: dataset.CleanRecord{
					StudentID:      2,
					Name:           "Bob Smith",
					Age:            19,
					GradeLevel:     12,
					EnrollmentDate: enrolled,
					GPA:            2.1,
					AttendanceRate: 0.7,
					Subjects:       []string{},
					Grades:         []string{},
				},
				DerivedFeatures: dataset.DerivedFeatures{
					DaysEnrolled:       136,
					NumSubjects:        0,
					AverageGradePoints: math.NaN(),
					AcademicStatus:     dataset.StatusPoor,
					AttendanceCategory: dataset.AttendanceLow,
					AgeGroup:           dataset.AgeSenior,
					PerformanceScore:   math.NaN(),
				},
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testSnapshot()))

	// BOM prefix for Excel compatibility.
	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))

	reader := csv.NewReader(bytes.NewReader(raw[3:]))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, datasetHeaders, rows[0])

	alice := rows[1]
	assert.Equal(t, "1", alice[0])
	assert.Equal(t, "Alice Johnson", alice[1])
	assert.Equal(t, "Biology;Math", alice[7])
	assert.Equal(t, "A;B", alice[8])
	assert.Equal(t, "3.5", alice[11])
	assert.Equal(t, "Good", alice[12])

	// NaN columns render as empty cells.
	bob := rows[2]
	assert.Equal(t, "", bob[11])
	assert.Equal(t, "", bob[15])
	assert.Equal(t, "", bob[7])
}

func TestWriteCSV_EmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, &dataset.Snapshot{BatchID: "empty"}))

	content := strings.TrimPrefix(buf.String(), "\xef\xbb\xbf")
	lines := strings.Split(strings.TrimSpace(content), "\n")
	assert.Len(t, lines, 1)
}

func TestWriteExcel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExcel(&buf, testSnapshot()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, datasetHeaders, rows[0])
	assert.Equal(t, "Alice Johnson", rows[1][1])
	assert.Equal(t, "Biology;Math", rows[1][7])
}

package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/dataset"
)

// datasetHeaders is the column order for exports, source columns first, then
// derived features.
var datasetHeaders = []string{
	"student_id",
	"name",
	"age",
	"grade_level",
	"enrollment_date",
	"gpa",
	"attendance_rate",
	"subjects",
	"grades",
	"days_enrolled",
	"num_subjects",
	"average_grade_points",
	"academic_status",
	"attendance_category",
	"age_group",
	"performance_score",
}

// WriteCSV streams a snapshot as CSV. A UTF-8 BOM is written first so Excel
// recognizes the encoding. List columns are joined with ";". NaN values are
// written as empty cells.
func WriteCSV(w io.Writer, snap *dataset.Snapshot) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(datasetHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, rec := range snap.Records {
		if err := writer.Write(recordRow(rec)); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// recordRow flattens a record into CSV cells.
func recordRow(rec dataset.Record) []string {
	return []string{
		strconv.FormatInt(rec.StudentID, 10),
		rec.Name,
		strconv.Itoa(rec.Age),
		strconv.Itoa(rec.GradeLevel),
		rec.EnrollmentDate.Format(time.RFC3339),
		formatFloat(rec.GPA),
		formatFloat(rec.AttendanceRate),
		strings.Join(rec.Subjects, ";"),
		strings.Join(rec.Grades, ";"),
		strconv.Itoa(rec.DaysEnrolled),
		strconv.Itoa(rec.NumSubjects),
		formatFloat(rec.AverageGradePoints),
		rec.AcademicStatus.String(),
		rec.AttendanceCategory.String(),
		rec.AgeGroup.String(),
		formatFloat(rec.PerformanceScore),
	}
}

// formatFloat renders a float cell, empty for NaN.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

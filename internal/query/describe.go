package query

import (
	"math"

	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/dataset"
)

// ColumnSummary holds basic summary statistics for one numeric column of the
// derived table. NaN feature values (students with no grades) are excluded
// from the count and the moments.
type ColumnSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Description describes one snapshot: shape, the null counts observed in the
// raw batch before imputation, and per-column numeric summaries of the
// derived table.
type Description struct {
	TotalRecords int                      `json:"total_records"`
	Columns      []string                 `json:"columns"`
	NullCounts   dataset.NullCounts       `json:"null_values"`
	Numeric      map[string]ColumnSummary `json:"summary_statistics"`
	BatchID      string                   `json:"batch_id"`
}

// datasetColumns is the flat column list of the derived table, in export
// order.
var datasetColumns = []string{
	"student_id", "name", "age", "grade_level", "enrollment_date",
	"gpa", "attendance_rate", "subjects", "grades",
	"days_enrolled", "num_subjects", "average_grade_points",
	"academic_status", "attendance_category", "age_group", "performance_score",
}

// Describe builds the dataset description for a snapshot.
func Describe(snap *dataset.Snapshot) *Description {
	numeric := map[string]ColumnSummary{
		"age":                  summarize(snap, func(r *dataset.Record) float64 { return float64(r.Age) }),
		"grade_level":          summarize(snap, func(r *dataset.Record) float64 { return float64(r.GradeLevel) }),
		"gpa":                  summarize(snap, func(r *dataset.Record) float64 { return r.GPA }),
		"attendance_rate":      summarize(snap, func(r *dataset.Record) float64 { return r.AttendanceRate }),
		"days_enrolled":        summarize(snap, func(r *dataset.Record) float64 { return float64(r.DaysEnrolled) }),
		"num_subjects":         summarize(snap, func(r *dataset.Record) float64 { return float64(r.NumSubjects) }),
		"average_grade_points": summarize(snap, func(r *dataset.Record) float64 { return r.AverageGradePoints }),
		"performance_score":    summarize(snap, func(r *dataset.Record) float64 { return r.PerformanceScore }),
	}

	return &Description{
		TotalRecords: snap.Len(),
		Columns:      datasetColumns,
		NullCounts:   snap.Nulls,
		Numeric:      numeric,
		BatchID:      snap.BatchID,
	}
}

// summarize computes count, mean, sample standard deviation, min and max for
// one column, skipping NaN values.
func summarize(snap *dataset.Snapshot, col func(*dataset.Record) float64) ColumnSummary {
	var s ColumnSummary
	s.Min = math.Inf(1)
	s.Max = math.Inf(-1)

	var sum float64
	for i := range snap.Records {
		v := col(&snap.Records[i])
		if math.IsNaN(v) {
			continue
		}
		s.Count++
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	if s.Count == 0 {
		return ColumnSummary{}
	}
	s.Mean = sum / float64(s.Count)

	if s.Count > 1 {
		var sq float64
		for i := range snap.Records {
			v := col(&snap.Records[i])
			if math.IsNaN(v) {
				continue
			}
			d := v - s.Mean
			sq += d * d
		}
		s.StdDev = math.Sqrt(sq / float64(s.Count-1))
	}
	return s
}

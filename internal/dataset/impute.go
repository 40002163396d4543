package dataset

import (
	"sort"
)

// ImputationReport records what one imputation pass did to the batch: the
// fill values computed from the non-null distribution and how many rows each
// one was substituted into. Re-running the imputer on already-clean data
// yields the same fill values and zero substitutions.
type ImputationReport struct {
	GPAFill           float64 `json:"gpa_fill"`
	GPAImputed        int     `json:"gpa_imputed"`
	AttendanceFill    float64 `json:"attendance_fill"`
	AttendanceImputed int     `json:"attendance_imputed"`
}

// Impute fills the nullable numeric columns of an aggregated batch: GPA with
// the batch-wide arithmetic mean of non-null values, attendance rate with the
// batch-wide median. Both statistics are computed once per batch from the
// column as a whole, never from cross-batch history, so imputation is
// deterministic and order-independent.
//
// A column with no non-null values has an undefined fill statistic and
// returns an ImputationError.
func Impute(records []RawRecord) ([]CleanRecord, *ImputationReport, error) {
	gpaFill, gpaN := meanOf(records, func(r *RawRecord) *float64 { return r.GPA })
	if gpaN == 0 {
		return nil, nil, &ImputationError{Column: "gpa", Message: "all values null, mean undefined"}
	}
	attFill, attN := medianOf(records, func(r *RawRecord) *float64 { return r.AttendanceRate })
	if attN == 0 {
		return nil, nil, &ImputationError{Column: "attendance_rate", Message: "all values null, median undefined"}
	}

	report := &ImputationReport{GPAFill: gpaFill, AttendanceFill: attFill}
	clean := make([]CleanRecord, len(records))
	for i, r := range records {
		c := CleanRecord{
			StudentID:      r.StudentID,
			Name:           r.Name,
			Age:            r.Age,
			GradeLevel:     r.GradeLevel,
			EnrollmentDate: r.EnrollmentDate,
			Subjects:       r.Subjects,
			Grades:         r.Grades,
		}
		if r.GPA != nil {
			c.GPA = *r.GPA
		} else {
			c.GPA = gpaFill
			report.GPAImputed++
		}
		if r.AttendanceRate != nil {
			c.AttendanceRate = *r.AttendanceRate
		} else {
			c.AttendanceRate = attFill
			report.AttendanceImputed++
		}
		clean[i] = c
	}
	return clean, report, nil
}

// meanOf computes the arithmetic mean over non-null values of one column.
func meanOf(records []RawRecord, col func(*RawRecord) *float64) (float64, int) {
	var sum float64
	var n int
	for i := range records {
		if v := col(&records[i]); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sum / float64(n), n
}

// medianOf computes the median over non-null values of one column, averaging
// the two middle order statistics for even counts.
func medianOf(records []RawRecord, col func(*RawRecord) *float64) (float64, int) {
	values := make([]float64, 0, len(records))
	for i := range records {
		if v := col(&records[i]); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return 0, 0
	}
	sort.Float64s(values)
	n := len(values)
	if n%2 == 0 {
		return (values[n/2-1] + values[n/2]) / 2, n
	}
	return values[n/2], n
}

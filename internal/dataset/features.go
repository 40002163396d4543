package dataset

import (
	"math"
	"time"
)

// Performance-score weights. The composite is
// 0.4*gpa + 0.3*attendance_rate + 0.3*average_grade_points; when a student
// has no recorded grades the grade-point term is NaN and the score is NaN
// rather than being silently treated as zero.
const (
	weightGPA         = 0.4
	weightAttendance  = 0.3
	weightGradePoints = 0.3
)

// Age-group edges. 15 is inclusive at the low end; anything outside [15, 22]
// gets AgeGroupUnknown and the row is kept.
const (
	ageMin          = 15
	ageJuniorMax    = 16
	ageIntermediate = 18
	ageMax          = 22
)

// BatchCuts holds the quantile boundaries computed from one batch's cleaned
// distributions. They are part of the published snapshot so readers can see
// which partition was applied.
type BatchCuts struct {
	GPA        []float64 `json:"gpa"`        // 3 quartile cuts -> 4 buckets
	Attendance []float64 `json:"attendance"` // 2 tercile cuts -> 3 buckets
}

// Synthesize derives the feature columns for a fully-imputed batch. It is a
// pure function of its inputs: the same records and reference time always
// produce the same output. Quantile cut points are computed once from the
// whole batch before any row is assigned.
//
// A grade letter outside the fixed A-F scale is a malformed source row and
// returns an IntegrityError.
func Synthesize(records []CleanRecord, now time.Time) ([]Record, BatchCuts, error) {
	gpas := make([]float64, len(records))
	rates := make([]float64, len(records))
	for i, r := range records {
		gpas[i] = r.GPA
		rates[i] = r.AttendanceRate
	}
	cuts := BatchCuts{
		GPA:        CutPoints(gpas, 4),
		Attendance: CutPoints(rates, 3),
	}

	out := make([]Record, len(records))
	for i, r := range records {
		avg, err := averageGradePoints(r.Grades)
		if err != nil {
			return nil, BatchCuts{}, err
		}

		score := weightGPA*r.GPA + weightAttendance*r.AttendanceRate + weightGradePoints*avg

		out[i] = Record{
			CleanRecord: r,
			DerivedFeatures: DerivedFeatures{
				DaysEnrolled:       daysBetween(r.EnrollmentDate, now),
				NumSubjects:        len(r.Subjects),
				AverageGradePoints: avg,
				AcademicStatus:     AcademicStatus(bucketIndex(cuts.GPA, r.GPA)),
				AttendanceCategory: AttendanceCategory(bucketIndex(cuts.Attendance, r.AttendanceRate)),
				AgeGroup:           ageGroup(r.Age),
				PerformanceScore:   score,
			},
		}
	}
	return out, cuts, nil
}

// averageGradePoints maps each letter grade through the fixed scale and
// averages. An empty grade list yields NaN, the documented sentinel for
// "no grades recorded".
func averageGradePoints(grades []string) (float64, error) {
	if len(grades) == 0 {
		return math.NaN(), nil
	}
	var sum float64
	for _, g := range grades {
		p, ok := GradePoint(g)
		if !ok {
			return 0, &IntegrityError{
				Field:   "grade",
				Message: "letter grade outside A-F scale",
				Value:   g,
			}
		}
		sum += p
	}
	return sum / float64(len(grades)), nil
}

// daysBetween returns whole days from enrollment to the reference time.
// Future enrollment dates yield negative values, preserved as-is.
func daysBetween(enrolled, now time.Time) int {
	return int(now.Sub(enrolled).Hours() / 24)
}

// ageGroup assigns the fixed-edge age bucket.
func ageGroup(age int) AgeGroup {
	switch {
	case age < ageMin || age > ageMax:
		return AgeGroupUnknown
	case age <= ageJuniorMax:
		return AgeJunior
	case age <= ageIntermediate:
		return AgeIntermediate
	default:
		return AgeSenior
	}
}

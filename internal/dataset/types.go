package dataset

import (
	"encoding/json"
	"time"
)

// RawRecord is a student row as loaded from the source, before cleaning.
// GPA and AttendanceRate are nullable until the imputer has run. Subjects and
// Grades are populated by aggregation: deduplicated, sorted ascending, and
// never nil once aggregation has run (empty slices for students with no
// enrollments).
type RawRecord struct {
	StudentID      int64
	Name           string
	Age            int
	GradeLevel     int
	EnrollmentDate time.Time
	GPA            *float64
	AttendanceRate *float64
	Subjects       []string
	Grades         []string
}

// ChildRecord is a single enrollment row from the one-to-many join: a student
// took a subject and received a letter grade. It has no identity beyond the
// triple.
type ChildRecord struct {
	StudentID   int64
	SubjectName string
	Grade       string
}

// CleanRecord is a student row after imputation. GPA and AttendanceRate are
// plain floats; the type boundary guarantees feature synthesis only ever sees
// fully-imputed input.
type CleanRecord struct {
	StudentID      int64     `json:"student_id"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	GradeLevel     int       `json:"grade_level"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	GPA            float64   `json:"gpa"`
	AttendanceRate float64   `json:"attendance_rate"`
	Subjects       []string  `json:"subjects"`
	Grades         []string  `json:"grades"`
}

// AcademicStatus is an ordinal bucket derived from the batch-wide GPA
// quartile distribution. Order matters: Poor < Fair < Good < Excellent.
type AcademicStatus int

const (
	StatusPoor AcademicStatus = iota
	StatusFair
	StatusGood
	StatusExcellent
)

// String returns the bucket label.
func (s AcademicStatus) String() string {
	switch s {
	case StatusPoor:
		return "Poor"
	case StatusFair:
		return "Fair"
	case StatusGood:
		return "Good"
	case StatusExcellent:
		return "Excellent"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the bucket as its label.
func (s AcademicStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// AttendanceCategory is an ordinal bucket derived from the batch-wide
// attendance-rate tercile distribution. Order: Low < Medium < High.
type AttendanceCategory int

const (
	AttendanceLow AttendanceCategory = iota
	AttendanceMedium
	AttendanceHigh
)

// String returns the bucket label.
func (c AttendanceCategory) String() string {
	switch c {
	case AttendanceLow:
		return "Low"
	case AttendanceMedium:
		return "Medium"
	case AttendanceHigh:
		return "High"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the bucket as its label.
func (c AttendanceCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// AgeGroup is a fixed-edge bucket over student age, independent of the
// batch distribution. AgeGroupUnknown marks ages outside [15, 22]; such rows
// are kept, not rejected.
type AgeGroup int

const (
	AgeGroupUnknown AgeGroup = iota
	AgeJunior                // 15-16 inclusive
	AgeIntermediate          // (16, 18]
	AgeSenior                // (18, 22]
)

// String returns the bucket label, empty for unknown.
func (g AgeGroup) String() string {
	switch g {
	case AgeJunior:
		return "Junior"
	case AgeIntermediate:
		return "Intermediate"
	case AgeSenior:
		return "Senior"
	default:
		return ""
	}
}

// MarshalJSON renders the bucket as its label; unknown marshals as null.
func (g AgeGroup) MarshalJSON() ([]byte, error) {
	if g == AgeGroupUnknown {
		return json.Marshal(nil)
	}
	return json.Marshal(g.String())
}

// DerivedFeatures are the columns synthesized from a fully-imputed batch.
// AverageGradePoints is NaN for students with no recorded grades, and that
// sentinel propagates into PerformanceScore.
type DerivedFeatures struct {
	DaysEnrolled       int                `json:"days_enrolled"`
	NumSubjects        int                `json:"num_subjects"`
	AverageGradePoints float64            `json:"average_grade_points"`
	AcademicStatus     AcademicStatus     `json:"academic_status"`
	AttendanceCategory AttendanceCategory `json:"attendance_category"`
	AgeGroup           AgeGroup           `json:"age_group"`
	PerformanceScore   float64            `json:"performance_score"`
}

// Record is a fully-derived student row: the cleaned scalars plus the
// synthesized feature columns.
type Record struct {
	CleanRecord
	DerivedFeatures
}

// gradePoints is the fixed ordinal scale for letter grades.
var gradePoints = map[string]float64{
	"A": 4.0,
	"B": 3.0,
	"C": 2.0,
	"D": 1.0,
	"F": 0.0,
}

// GradePoint returns the ordinal value for a letter grade.
func GradePoint(grade string) (float64, bool) {
	p, ok := gradePoints[grade]
	return p, ok
}

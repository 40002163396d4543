package query

import (
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/dataset"
)

// Stats are dataset-wide summary figures over the whole snapshot or a
// filtered subset. Means are nil when the matching set is empty; they are
// never NaN and never a silent zero.
type Stats struct {
	Count             int      `json:"total_students"`
	AverageGPA        *float64 `json:"average_gpa"`
	AverageAttendance *float64 `json:"average_attendance"`
	GradeLevels       int      `json:"grade_levels"`
}

// Summarize computes summary statistics over the records matching the
// filter, reusing the query engine's predicate semantics without pagination.
func Summarize(snap *dataset.Snapshot, f Filter) Stats {
	matched := filterRecords(snap, f)
	if len(matched) == 0 {
		return Stats{}
	}

	var gpaSum, attSum float64
	levels := make(map[int]struct{})
	for i := range matched {
		gpaSum += matched[i].GPA
		attSum += matched[i].AttendanceRate
		levels[matched[i].GradeLevel] = struct{}{}
	}

	n := float64(len(matched))
	avgGPA := gpaSum / n
	avgAtt := attSum / n
	return Stats{
		Count:             len(matched),
		AverageGPA:        &avgGPA,
		AverageAttendance: &avgAtt,
		GradeLevels:       len(levels),
	}
}

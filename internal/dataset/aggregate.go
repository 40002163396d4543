package dataset

import (
	"sort"
)

// Aggregate joins student rows with their enrollment rows, producing exactly
// one RawRecord per distinct student id. Subjects and Grades become the
// deduplicated sets of subject names and letter grades joined to that
// student, sorted ascending so two runs over the same batch always produce
// identical output regardless of child-row order. Students with no matching
// enrollments get empty, non-nil slices.
//
// An enrollment referencing a student id absent from the primary rows is a
// corrupt join and returns an IntegrityError; it is never silently dropped.
// So is a duplicate student id among the primary rows themselves.
func Aggregate(students []RawRecord, enrollments []ChildRecord) ([]RawRecord, error) {
	byID := make(map[int64]int, len(students))
	out := make([]RawRecord, len(students))
	for i, s := range students {
		if _, dup := byID[s.StudentID]; dup {
			return nil, &IntegrityError{
				Field:   "student_id",
				Message: "duplicate student id in primary rows",
				Value:   s.StudentID,
			}
		}
		s.Subjects = []string{}
		s.Grades = []string{}
		out[i] = s
		byID[s.StudentID] = i
	}

	subjects := make(map[int64]map[string]struct{})
	grades := make(map[int64]map[string]struct{})
	for _, e := range enrollments {
		if _, ok := byID[e.StudentID]; !ok {
			return nil, &IntegrityError{
				Field:   "student_id",
				Message: "enrollment references unknown student",
				Value:   e.StudentID,
			}
		}
		if subjects[e.StudentID] == nil {
			subjects[e.StudentID] = make(map[string]struct{})
			grades[e.StudentID] = make(map[string]struct{})
		}
		subjects[e.StudentID][e.SubjectName] = struct{}{}
		grades[e.StudentID][e.Grade] = struct{}{}
	}

	for id, set := range subjects {
		i := byID[id]
		out[i].Subjects = sortedKeys(set)
		out[i].Grades = sortedKeys(grades[id])
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StudentID < out[j].StudentID
	})
	return out, nil
}

// sortedKeys returns the set's members in ascending order.
func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

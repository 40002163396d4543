package dataset

import (
	"fmt"
	"math/rand"
	"time"
)

// SubjectCatalog is the fixed set of subjects students can enroll in.
var SubjectCatalog = []string{
	"Mathematics",
	"Physics",
	"Chemistry",
	"Biology",
	"History",
	"English",
	"Computer Science",
	"Literature",
	"Geography",
	"Economics",
}

// gradeLetters with their sampling weights: most students cluster around B/C.
var (
	gradeLetters = []string{"A", "B", "C", "D", "F"}
	gradeWeights = []float64{0.2, 0.3, 0.3, 0.15, 0.05}
)

var (
	firstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael",
		"Linda", "David", "Elizabeth", "William", "Barbara", "Richard", "Susan",
		"Joseph", "Jessica", "Thomas", "Sarah", "Janet", "Karen", "Jane", "Daniel",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
		"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
		"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	}
)

// GeneratorConfig controls synthetic batch generation.
type GeneratorConfig struct {
	NumStudents int
	Seed        int64
	NullRate    float64   // fraction of gpa/attendance values left null
	Now         time.Time // reference for enrollment dates
}

// DefaultGeneratorConfig mirrors the shape of the production dataset: ages
// 15-22, grade levels 9-12, enrollment within the last four years, 5% nulls.
func DefaultGeneratorConfig(n int, seed int64) GeneratorConfig {
	return GeneratorConfig{
		NumStudents: n,
		Seed:        seed,
		NullRate:    0.05,
		Now:         time.Now(),
	}
}

// GenerateBatch produces a deterministic synthetic batch: student rows plus
// enrollment rows, 3-6 distinct subjects per student. The same config always
// yields the same batch.
func GenerateBatch(cfg GeneratorConfig) ([]RawRecord, []ChildRecord) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	students := make([]RawRecord, cfg.NumStudents)
	var enrollments []ChildRecord

	for i := 0; i < cfg.NumStudents; i++ {
		id := int64(i + 1)
		name := fmt.Sprintf("%s %s",
			firstNames[rng.Intn(len(firstNames))],
			lastNames[rng.Intn(len(lastNames))])

		// Enrollment date within the last four years.
		daysAgo := rng.Intn(4 * 365)
		enrolled := cfg.Now.AddDate(0, 0, -daysAgo).Truncate(24 * time.Hour)

		students[i] = RawRecord{
			StudentID:      id,
			Name:           name,
			Age:            15 + rng.Intn(8), // 15-22 inclusive
			GradeLevel:     9 + rng.Intn(4),  // 9-12
			EnrollmentDate: enrolled,
			GPA:            maybeNull(rng, cfg.NullRate, 2.0+rng.Float64()*2.0),
			AttendanceRate: maybeNull(rng, cfg.NullRate, 0.7+rng.Float64()*0.3),
		}

		// Each student takes 3-6 distinct subjects.
		numSubjects := 3 + rng.Intn(4)
		for _, si := range rng.Perm(len(SubjectCatalog))[:numSubjects] {
			enrollments = append(enrollments, ChildRecord{
				StudentID:   id,
				SubjectName: SubjectCatalog[si],
				Grade:       weightedGrade(rng),
			})
		}
	}
	return students, enrollments
}

// maybeNull returns nil with probability rate, else a pointer to v.
func maybeNull(rng *rand.Rand, rate, v float64) *float64 {
	if rng.Float64() < rate {
		return nil
	}
	return &v
}

// weightedGrade samples a letter grade from the fixed weight distribution.
func weightedGrade(rng *rand.Rand) string {
	r := rng.Float64()
	var cum float64
	for i, w := range gradeWeights {
		cum += w
		if r < cum {
			return gradeLetters[i]
		}
	}
	return gradeLetters[len(gradeLetters)-1]
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/dataset"
	apierrors "github.com/thierryrudaseswa/ClassroomSubTracker/internal/errors"
)

// schema creates the source tables if they do not exist. Grades live in a
// separate table because a student holds one row per enrollment.
const schema = `
CREATE TABLE IF NOT EXISTS students (
	student_id      BIGINT PRIMARY KEY,
	name            TEXT NOT NULL,
	age             INT NOT NULL,
	grade_level     INT NOT NULL,
	enrollment_date TIMESTAMPTZ NOT NULL,
	gpa             DOUBLE PRECISION,
	attendance_rate DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS enrollments (
	student_id   BIGINT NOT NULL REFERENCES students(student_id),
	subject_name TEXT NOT NULL,
	grade        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_enrollments_student ON enrollments(student_id);
`

// PostgresStore loads source batches from PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// PostgresConfig contains connection pool settings.
type PostgresConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
}

// NewPostgresStore opens a connection pool and verifies connectivity.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, apierrors.NewStorageError("open postgres", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnLifetime)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apierrors.NewStorageError("ping postgres", err)
	}

	return &PostgresStore{
		db:     db,
		logger: logger.With(slog.String("component", "postgres_store")),
	}, nil
}

// EnsureSchema creates the source tables if missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return apierrors.NewStorageError("create schema", err)
	}
	return nil
}

// LoadBatch reads the full student and enrollment tables. Both reads run
// concurrently; either failure aborts the batch.
func (s *PostgresStore) LoadBatch(ctx context.Context) ([]dataset.RawRecord, []dataset.ChildRecord, error) {
	start := time.Now()

	var (
		students    []dataset.RawRecord
		enrollments []dataset.ChildRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		students, err = s.loadStudents(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		enrollments, err = s.loadEnrollments(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, apierrors.NewStorageError("load batch", err)
	}

	s.logger.InfoContext(ctx, "batch loaded",
		slog.Int("students", len(students)),
		slog.Int("enrollments", len(enrollments)),
		slog.Duration("duration", time.Since(start)),
	)
	return students, enrollments, nil
}

func (s *PostgresStore) loadStudents(ctx context.Context) ([]dataset.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT student_id, name, age, grade_level, enrollment_date, gpa, attendance_rate
		FROM students
		ORDER BY student_id`)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	var records []dataset.RawRecord
	for rows.Next() {
		var (
			rec        dataset.RawRecord
			gpa        sql.NullFloat64
			attendance sql.NullFloat64
		)
		if err := rows.Scan(&rec.StudentID, &rec.Name, &rec.Age, &rec.GradeLevel,
			&rec.EnrollmentDate, &gpa, &attendance); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		if gpa.Valid {
			v := gpa.Float64
			rec.GPA = &v
		}
		if attendance.Valid {
			v := attendance.Float64
			rec.AttendanceRate = &v
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) loadEnrollments(ctx context.Context) ([]dataset.ChildRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT student_id, subject_name, grade
		FROM enrollments
		ORDER BY student_id, subject_name`)
	if err != nil {
		return nil, fmt.Errorf("query enrollments: %w", err)
	}
	defer rows.Close()

	var records []dataset.ChildRecord
	for rows.Next() {
		var rec dataset.ChildRecord
		if err := rows.Scan(&rec.StudentID, &rec.SubjectName, &rec.Grade); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrollments: %w", err)
	}
	return records, nil
}

// Seed bulk-inserts a batch using COPY inside a single transaction. Existing
// rows are removed first so seeding is repeatable.
func (s *PostgresStore) Seed(ctx context.Context, students []dataset.RawRecord, enrollments []dataset.ChildRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM enrollments`); err != nil {
		return fmt.Errorf("clear enrollments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM students`); err != nil {
		return fmt.Errorf("clear students: %w", err)
	}

	if err := copyStudents(ctx, tx, students); err != nil {
		return err
	}
	if err := copyEnrollments(ctx, tx, enrollments); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apierrors.NewStorageError("commit seed tx", err)
	}

	s.logger.InfoContext(ctx, "seed complete",
		slog.Int("students", len(students)),
		slog.Int("enrollments", len(enrollments)),
	)
	return nil
}

func copyStudents(ctx context.Context, tx *sql.Tx, students []dataset.RawRecord) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("students",
		"student_id", "name", "age", "grade_level", "enrollment_date", "gpa", "attendance_rate"))
	if err != nil {
		return fmt.Errorf("prepare students copy: %w", err)
	}
	defer stmt.Close()

	for _, rec := range students {
		var gpa, attendance interface{}
		if rec.GPA != nil {
			gpa = *rec.GPA
		}
		if rec.AttendanceRate != nil {
			attendance = *rec.AttendanceRate
		}
		if _, err := stmt.ExecContext(ctx, rec.StudentID, rec.Name, rec.Age,
			rec.GradeLevel, rec.EnrollmentDate, gpa, attendance); err != nil {
			return fmt.Errorf("copy student %d: %w", rec.StudentID, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("flush students copy: %w", err)
	}
	return nil
}

func copyEnrollments(ctx context.Context, tx *sql.Tx, enrollments []dataset.ChildRecord) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("enrollments", "student_id", "subject_name", "grade"))
	if err != nil {
		return fmt.Errorf("prepare enrollments copy: %w", err)
	}
	defer stmt.Close()

	for _, rec := range enrollments {
		if _, err := stmt.ExecContext(ctx, rec.StudentID, rec.SubjectName, rec.Grade); err != nil {
			return fmt.Errorf("copy enrollment %d/%s: %w", rec.StudentID, rec.SubjectName, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("flush enrollments copy: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Command seed generates a synthetic student batch and loads it into the
// Postgres tables read by the server's postgres dataset source.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/dataset"
	"github.com/thierryrudaseswa/ClassroomSubTracker/internal/store"
)

func main() {
	var (
		dsn   = flag.String("dsn", os.Getenv("CST_DATABASE_DSN"), "Postgres connection string")
		count = flag.Int("count", 1000, "number of students to generate")
		seed  = flag.Int64("seed", 42, "random seed for the generator")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if *dsn == "" {
		logger.Error("no DSN provided, set -dsn or CST_DATABASE_DSN")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	students, enrollments := dataset.GenerateBatch(dataset.DefaultGeneratorConfig(*count, *seed))

	pg, err := store.NewPostgresStore(ctx, store.PostgresConfig{
		DSN:          *dsn,
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		ConnLifetime: time.Minute,
	}, logger)
	if err != nil {
		logger.Error("failed to connect", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pg.Close()

	if err := pg.EnsureSchema(ctx); err != nil {
		logger.Error("failed to create schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := pg.Seed(ctx, students, enrollments); err != nil {
		logger.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seed complete",
		slog.Int("students", len(students)),
		slog.Int("enrollments", len(enrollments)))
}

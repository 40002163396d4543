// Package store provides batch sources for the dataset pipeline.
//
// Two implementations exist: PostgresStore reads the students and enrollments
// tables from a relational source, and SyntheticStore generates deterministic
// batches in memory. Both satisfy the services.Loader interface; the app picks
// one at startup based on configuration.
package store

// Package dataset implements the student-records ingestion pipeline: joining
// raw student rows with their enrollment rows, imputing missing numeric
// values, and synthesizing the derived feature columns served by the query
// API.
//
// # Architecture
//
// The pipeline is a strict sequence of typed stages:
//
//	RawRecord + ChildRecord → Aggregate → RawRecord (with subjects/grades)
//	                        → Impute    → CleanRecord
//	                        → Synthesize → Record (with DerivedFeatures)
//
// Each stage has its own record type so feature synthesis can only ever be
// handed fully-imputed input. Build runs the whole sequence for one batch
// and produces an immutable Snapshot.
//
// # Snapshots
//
// A Snapshot is never mutated after it is built. Holder publishes snapshots
// with an atomic pointer swap, so any number of readers can query one batch
// lock-free while the next batch is being built. A failed build publishes
// nothing; the previous snapshot stays live.
//
// # Determinism
//
// Aggregation output is sorted, imputation statistics are pure functions of
// the batch, and quantile cut points are computed once from the entire
// cleaned distribution before any row is bucketed. Building the same batch
// twice with the same reference time yields identical derived tables.
package dataset

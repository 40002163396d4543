// Package query is the read side of the derived student table: filtered,
// stably-paginated record selection plus on-demand summary statistics and
// dataset description. All reads operate on an immutable dataset.Snapshot
// and are safe for any number of concurrent callers.
package query

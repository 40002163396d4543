// Package exporter renders dataset snapshots as CSV and Excel streams for
// the export endpoint. Writers take an io.Writer so exports stream straight
// into HTTP responses without buffering the whole dataset.
package exporter

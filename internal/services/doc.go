// Package services contains the application service layer.
//
// StudentService sits between the HTTP transport and the dataset pipeline.
// It owns the snapshot holder: writes go through Refresh, which rebuilds the
// derived table from a fresh batch and publishes it atomically; reads load
// the current snapshot and never block a refresh in progress.
package services

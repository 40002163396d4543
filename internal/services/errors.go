package services

import "errors"

// ErrNoSnapshot is returned by read operations before the first successful
// refresh has published a snapshot.
var ErrNoSnapshot = errors.New("no snapshot available")

package dataset

import (
	"sync/atomic"
	"time"
)

// NullCounts records how many nulls each nullable column had in the raw
// batch, observed before imputation.
type NullCounts struct {
	GPA            int `json:"gpa"`
	AttendanceRate int `json:"attendance_rate"`
}

// Snapshot is the immutable derived table produced by one ingestion batch.
// Records are sorted by student id ascending. A snapshot is never mutated
// after it is built; refreshes build a whole new one and swap the pointer.
type Snapshot struct {
	BatchID    string
	BuiltAt    time.Time
	Records    []Record
	Cuts       BatchCuts
	Nulls      NullCounts
	Imputation ImputationReport
}

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Records)
}

// Holder publishes snapshots to concurrent readers. Load and Publish are
// lock-free; a reader that loaded a snapshot keeps working against it even
// if a newer batch is published mid-query.
type Holder struct {
	current atomic.Pointer[Snapshot]
}

// Load returns the currently published snapshot, or nil before the first
// successful batch.
func (h *Holder) Load() *Snapshot {
	return h.current.Load()
}

// Publish atomically replaces the published snapshot.
func (h *Holder) Publish(s *Snapshot) {
	h.current.Store(s)
}

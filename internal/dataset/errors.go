package dataset

import "fmt"

// IntegrityError reports a corrupt relationship or malformed value in the
// source batch: an enrollment row referencing an unknown student, or a grade
// letter outside the fixed scale. It is fatal to the batch; the previous
// snapshot stays published.
type IntegrityError struct {
	Field   string
	Message string
	Value   interface{}
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("data integrity: %s: %s (%v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("data integrity: %s: %s", e.Field, e.Message)
}

// ImputationError reports a column whose fill statistic is undefined because
// every value in the batch is null. Fatal to the batch.
type ImputationError struct {
	Column  string
	Message string
}

// Error implements the error interface.
func (e *ImputationError) Error() string {
	return fmt.Sprintf("imputation: column %s: %s", e.Column, e.Message)
}

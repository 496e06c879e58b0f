package models

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across packages.
var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoPredictions indicates a date has nothing stored to verify.
	ErrNoPredictions = errors.New("no predictions stored for date")

	// ErrEmptyRun indicates a run produced zero predictions; callers
	// must fail loudly rather than commit an empty set.
	ErrEmptyRun = errors.New("run produced no predictions")
)

// PersistenceError wraps a TrackingStore failure. Fatal to the current
// run's commit step only; committed data is never affected.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError creates a PersistenceError for the given operation.
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

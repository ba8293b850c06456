package sync

import (
	"errors"
	"fmt"
)

// ErrParentNotFound is reported per item when a dependent record or reminder
// cannot resolve its parent patient. The message matches what clients key on.
var ErrParentNotFound = errors.New("Patient not found")

// ItemError correlates a per-item failure back to the client's local id.
type ItemError struct {
	LocalID string `json:"local_id"`
	Reason  string `json:"error"`
}

// StoreError marks a durable-write failure. Unlike per-item errors it aborts
// the remaining items of the current entity kind and surfaces as a batch-level
// failure; already-committed kinds stay committed.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

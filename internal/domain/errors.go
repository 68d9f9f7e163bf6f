package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a malformed record or token.
	ErrInvalidInput = errors.New("invalid input")
	// ErrOutOfRange marks a query for an item that is not in the corpus.
	ErrOutOfRange = errors.New("item out of range")
	// ErrEmptyCorpus marks a corpus with no items.
	ErrEmptyCorpus = errors.New("empty corpus")
)

// ItemError records a failure for one input record. The batch it belongs to
// keeps going.
type ItemError struct {
	Source string
	Line   int
	ItemID int
	Err    error
}

func (e *ItemError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s:%d: item %d: %v", e.Source, e.Line, e.ItemID, e.Err)
	}
	return fmt.Sprintf("item %d: %v", e.ItemID, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// Report aggregates per-item failures of a batch.
type Report struct {
	Processed int
	Failures  []*ItemError
}

// Add records a failure.
func (r *Report) Add(fail *ItemError) {
	r.Failures = append(r.Failures, fail)
}

// Merge appends the failures and counts of other.
func (r *Report) Merge(other Report) {
	r.Processed += other.Processed
	r.Failures = append(r.Failures, other.Failures...)
}

// Err joins all failures, or returns nil if there were none.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

package equity

import (
	"errors"
	"fmt"
)

// ErrSeedMismatch indicates a seed vector whose length does not match the
// graph it is being propagated over.
var ErrSeedMismatch = errors.New("seed vector length does not match graph")

// DegenerateInputError indicates an empty page set. There is nothing to
// seed or propagate over, and returning an all-zero vector would only move
// the failure downstream.
type DegenerateInputError struct {
	Op string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("%s: empty page set", e.Op)
}

// NumericOverflowError indicates a non-finite intermediate value. The
// engine fails fast instead of letting a NaN or Inf reach the normalizer.
type NumericOverflowError struct {
	Op   string
	Page string
}

func (e *NumericOverflowError) Error() string {
	if e.Page != "" {
		return fmt.Sprintf("%s: non-finite value at page %q", e.Op, e.Page)
	}
	return fmt.Sprintf("%s: non-finite value", e.Op)
}

package core

import (
	"errors"
	"fmt"
)

// Structural errors - raised when a computation cannot produce a meaningful result.
// Data-quality problems are never reported through these; they travel as result values.
var (
	ErrNoValidNumeric   = errors.New("no valid numeric values")
	ErrLengthMismatch   = errors.New("arrays must have same length")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrTooFewGroups     = errors.New("at least 2 groups required")
	ErrNoVariance       = errors.New("values must vary")
	ErrEmptyDataset     = errors.New("dataset has no rows")
)

// StructuralError carries the operation that failed alongside the sentinel cause
type StructuralError struct {
	Op     string
	Err    error
	Detail string
}

func (e *StructuralError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %v (%s)", e.Op, e.Err, e.Detail)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}

// NewStructuralError builds a StructuralError for op
func NewStructuralError(op string, err error) error {
	return &StructuralError{Op: op, Err: err}
}

// NewStructuralErrorf builds a StructuralError with a formatted detail message
func NewStructuralErrorf(op string, err error, format string, args ...interface{}) error {
	return &StructuralError{Op: op, Err: err, Detail: fmt.Sprintf(format, args...)}
}

// NewInsufficientDataError reports that op needed at least min observations but got got
func NewInsufficientDataError(op string, min, got int) error {
	return NewStructuralErrorf(op, ErrInsufficientData, "need at least %d observations, got %d", min, got)
}

// NewLengthMismatchError reports two input arrays of different lengths
func NewLengthMismatchError(op string, a, b int) error {
	return NewStructuralErrorf(op, ErrLengthMismatch, "len %d != len %d", a, b)
}

// IsStructural reports whether err belongs to the structural (channel 1) error class
func IsStructural(err error) bool {
	var se *StructuralError
	if errors.As(err, &se) {
		return true
	}
	return errors.Is(err, ErrNoValidNumeric) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrTooFewGroups) ||
		errors.Is(err, ErrNoVariance) ||
		errors.Is(err, ErrEmptyDataset)
}

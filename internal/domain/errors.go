package domain

import (
	"fmt"
	"time"
)

// PipelineErrorKind classifies a PipelineError into one of four kinds:
// data shape, arithmetic, resource, cancellation.
type PipelineErrorKind string

const (
	ErrKindDataShape    PipelineErrorKind = "DATA_SHAPE"
	ErrKindArithmetic   PipelineErrorKind = "ARITHMETIC"
	ErrKindResource     PipelineErrorKind = "RESOURCE"
	ErrKindCancellation PipelineErrorKind = "CANCELLATION"
)

// PipelineError is the single error type every stage returns. Most
// arithmetic-kind failures never reach this type at all -- they are encoded
// as a row-level ReasonCode instead (see SignalRow.ReasonCode) -- so a
// PipelineError of kind ErrKindArithmetic is reserved for aggregate-level
// failures where no row could be produced at all.
type PipelineError struct {
	Kind      PipelineErrorKind
	Stage     string
	Message   string
	Cause     error
	Timestamp time.Time
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s[%s]: %s: %v", e.Stage, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Stage, e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *PipelineError) Unwrap() error { return e.Cause }

// NewPipelineError constructs a PipelineError with the current timestamp.
func NewPipelineError(kind PipelineErrorKind, stage, message string, cause error) *PipelineError {
	return &PipelineError{
		Kind:      kind,
		Stage:     stage,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now().UTC(),
	}
}

// IsCancellation reports whether err is a cancellation-kind PipelineError.
// Cancellation is propagated upward but must not be logged as an error.
func IsCancellation(err error) bool {
	pe, ok := err.(*PipelineError)
	return ok && pe.Kind == ErrKindCancellation
}

package engine

import (
	"errors"
	"fmt"
)

// ProcessError reports why a document could not be processed.
//
// Data anomalies are never ProcessErrors; they become diagnostics. A
// ProcessError means the document produced no Outcome:
//   - Cancelled: the context was done before the document started
//   - Digest: the document could not be canonically encoded
//   - Run log: the outcome could not be recorded
type ProcessError struct {
	// Code identifies the error category.
	Code ErrorCode

	// DocumentID identifies the affected document.
	DocumentID string

	// Err is the underlying cause.
	Err error
}

// ErrorCode categorizes process errors.
type ErrorCode string

const (
	ErrCodeCancelled ErrorCode = "CANCELLED"
	ErrCodeDigest    ErrorCode = "DIGEST"
	ErrCodeRunLog    ErrorCode = "RUN_LOG"
)

// Error implements the error interface.
func (e *ProcessError) Error() string {
	if e.DocumentID != "" {
		return fmt.Sprintf("%s: document %s: %v", e.Code, e.DocumentID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsCancelled returns true if processing stopped because the context was
// done. Uses errors.As to handle wrapped errors.
func IsCancelled(err error) bool {
	var pe *ProcessError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeCancelled
	}
	return false
}

// IsRunLogError returns true if the run log could not be written.
func IsRunLogError(err error) bool {
	var pe *ProcessError
	if errors.As(err, &pe) {
		return pe.Code == ErrCodeRunLog
	}
	return false
}

// NewCancelledError creates a ProcessError for a done context.
func NewCancelledError(docID string, cause error) *ProcessError {
	return &ProcessError{Code: ErrCodeCancelled, DocumentID: docID, Err: cause}
}

// NewDigestError creates a ProcessError for an unencodable document.
func NewDigestError(docID string, cause error) *ProcessError {
	return &ProcessError{Code: ErrCodeDigest, DocumentID: docID, Err: cause}
}

// NewRunLogError creates a ProcessError for a failed run log write.
func NewRunLogError(docID string, cause error) *ProcessError {
	return &ProcessError{Code: ErrCodeRunLog, DocumentID: docID, Err: cause}
}

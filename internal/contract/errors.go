package contract

import (
	"errors"
	"fmt"
)

// ErrorKind classifies API failures so callers can apply the right recovery
// policy without string-matching error messages.
type ErrorKind int

// All error kinds supported.
const (
	KindFatal     ErrorKind = iota // abort the whole run
	KindRetryable                  // retry with bounded backoff
	KindSkippable                  // log a warning and continue
)

// Package-level sentinel errors.
var (
	// ErrMissingToken means no GitHub token could be found in any source.
	ErrMissingToken = errors.New("no GitHub token configured")

	// ErrRetriesExhausted means a retryable operation ran out of attempts.
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// APIError tags an underlying failure with its kind and the operation that
// produced it.
type APIError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying error for errors.Is chains.
func (e *APIError) Unwrap() error {
	return e.Err
}

// NewFatalError wraps err as a fatal API error.
func NewFatalError(op string, err error) *APIError {
	return &APIError{Kind: KindFatal, Op: op, Err: err}
}

// NewRetryableError wraps err as a retryable API error.
func NewRetryableError(op string, err error) *APIError {
	return &APIError{Kind: KindRetryable, Op: op, Err: err}
}

// NewSkippableError wraps err as a skippable API error.
func NewSkippableError(op string, err error) *APIError {
	return &APIError{Kind: KindSkippable, Op: op, Err: err}
}

// kindOf extracts the kind of an error. Untagged errors default to fatal,
// the conservative choice.
func kindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindFatal
}

// IsFatal reports whether the error should abort the run.
func IsFatal(err error) bool {
	return err != nil && kindOf(err) == KindFatal
}

// IsRetryable reports whether the error is worth another attempt.
func IsRetryable(err error) bool {
	return err != nil && kindOf(err) == KindRetryable
}

// IsSkippable reports whether the error can be logged and skipped.
func IsSkippable(err error) bool {
	return err != nil && kindOf(err) == KindSkippable
}

// Package errors provides structured errors with stable codes.
//
// Codes classify a failure for the CLI: setup and connectivity failures are
// fatal, everything that is recovered locally never reaches this package.
//
//	err := errors.WrapWithContext(errors.ErrCodeUnavailable,
//	    "failed to list nodes", cause, map[string]any{"endpoint": host})
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode classifies a StructuredError.
type ErrorCode string

const (
	// ErrCodeInvalidRequest marks bad user input (flags, formats).
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	// ErrCodeUnavailable marks an unreachable endpoint or a failed setup step.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout marks an exceeded deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeDegraded marks a recovered failure promoted to an error in strict mode.
	ErrCodeDegraded ErrorCode = "DEGRADED"
	// ErrCodeInternal marks anything else.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError is an error with a code, a message and optional context.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements error.
func (e *StructuredError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Context[k])
		}
		b.WriteString(")")
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the cause.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New returns a StructuredError without a cause.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// Wrap returns a StructuredError wrapping cause.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// WrapWithContext returns a StructuredError wrapping cause with additional context.
func WrapWithContext(code ErrorCode, message string, cause error, details map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause, Context: details}
}

// CodeOf returns the code of the first StructuredError in err's chain.
// Deadline and cancellation errors without a StructuredError map to
// ErrCodeTimeout; any other error maps to ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}

	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return ErrCodeTimeout
	}
	return ErrCodeInternal
}

// ExitCode maps err to a process exit code: 0 on success, 2 when the run was
// canceled or timed out, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return 2
	}
	return 1
}

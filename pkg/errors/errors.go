// Package errors defines the planner's error kinds.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the planner, per spec.md §7.
const (
	CodeInvalidArgument    = "INVALID_ARGUMENT"
	CodeInvariantViolation = "INVARIANT_VIOLATION"
	CodeDeferred           = "DEFERRED"
	CodeInternal           = "INTERNAL"
)

// PlanError represents a planner error with a code and message.
type PlanError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PlanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *PlanError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target by code.
func (e *PlanError) Is(target error) bool {
	t, ok := target.(*PlanError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new PlanError.
func New(code, message string) *PlanError {
	return &PlanError{Code: code, Message: message}
}

// Newf creates a new PlanError with a formatted message.
func Newf(code, format string, args ...interface{}) *PlanError {
	return &PlanError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a PlanError.
func Wrap(code, message string, err error) *PlanError {
	return &PlanError{Code: code, Message: message, Err: err}
}

// InvalidArgument builds a CodeInvalidArgument error, per spec.md §7: fail
// immediately on malformed planner input (e.g. align_partitions with no
// tables, concat with how not in {inner, outer}).
func InvalidArgument(format string, args ...interface{}) *PlanError {
	return Newf(CodeInvalidArgument, format, args...)
}

// InvariantViolation builds a CodeInvariantViolation error, per spec.md §7:
// the planner was handed a graph that breaks an acyclicity or referential
// precondition (cyclic graph, dangling key).
func InvariantViolation(format string, args ...interface{}) *PlanError {
	return Newf(CodeInvariantViolation, format, args...)
}

// Deferred builds a CodeDeferred error marker for conditions that are not
// planner errors at all — spec.md §7 classifies unknown join keys and
// mismatched concat schemas as errors the kernel reports at execution time;
// the planner never raises these itself, but callers that want to represent
// "this will fail once the executor runs it" use this constructor.
func Deferred(format string, args ...interface{}) *PlanError {
	return Newf(CodeDeferred, format, args...)
}

// Common sentinel instances for errors.Is comparisons against a code only.
var (
	ErrInvalidArgument    = New(CodeInvalidArgument, "invalid argument")
	ErrInvariantViolation = New(CodeInvariantViolation, "invariant violation")
	ErrDeferred           = New(CodeDeferred, "deferred to execution")
)

// IsInvalidArgument reports whether err is a CodeInvalidArgument PlanError.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsInvariantViolation reports whether err is a CodeInvariantViolation PlanError.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrInvariantViolation)
}

// IsDeferred reports whether err is a CodeDeferred PlanError.
func IsDeferred(err error) bool {
	return errors.Is(err, ErrDeferred)
}

// Code extracts the error code from err, or CodeInternal if err is not a
// PlanError.
func Code(err error) string {
	var pe *PlanError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return CodeInternal
}

// Message extracts the message from err, falling back to err.Error().
func Message(err error) string {
	var pe *PlanError
	if errors.As(err, &pe) {
		return pe.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// Package errors provides the unified error type and factory functions for
// themedash.  Every layer (domain, application, infrastructure, interfaces)
// uses AppError as the single carrier for structured error information, so
// HTTP responses, CLI output and logs all see the same code.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout themedash.
// It supports Go 1.13+ wrapping so errors.Is / errors.As / errors.Unwrap work
// across all layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeUnmappedTheme, "theme has no domain").
//	           WithDetail(`theme="Unknown"`)
//	return errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "fetch dataset")
type AppError struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description, safe for API responses.
	Message string

	// Detail carries supplementary context (column names, row numbers, URIs).
	Detail string

	// Cause is the underlying error, if any.
	Cause error

	// Stack is the call-stack captured at creation.  Not part of Error().
	Stack string
}

// Error implements the error interface.
// Format: "[<code>] <message>: <detail>: <cause>"; empty segments are omitted.
func (e *AppError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Code.String(), e.Message)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// It is safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithDetailf is WithDetail with fmt.Sprintf formatting.
func (e *AppError) WithDetailf(format string, args ...interface{}) *AppError {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// HTTPStatus returns the HTTP status code associated with the error's code.
func (e *AppError) HTTPStatus() int {
	return HTTPStatusFor(e.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Factory functions
// ─────────────────────────────────────────────────────────────────────────────

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.  If err is nil,
// Wrap returns nil.  When err is already an *AppError and code is
// ErrCodeUnknown the original code is preserved.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == ErrCodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// NotFound constructs an ErrCodeNotFound AppError.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message, Stack: captureStack(1)}
}

// InvalidParam constructs an ErrCodeBadRequest AppError.
func InvalidParam(message string) *AppError {
	return &AppError{Code: ErrCodeBadRequest, Message: message, Stack: captureStack(1)}
}

// Internal constructs an ErrCodeInternal AppError.  Always log the underlying
// cause before or after calling Internal.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Stack: captureStack(1)}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error-chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an *AppError with code.
//
//	if errors.IsCode(err, errors.ErrCodeUnmappedTheme) { ... }
func IsCode(err error, code ErrorCode) bool {
	for err != nil {
		var ae *AppError
		if !errors.As(err, &ae) {
			return false
		}
		if ae.Code == code {
			return true
		}
		err = ae.Cause
	}
	return false
}

// IsNotFound reports whether err's chain carries ErrCodeNotFound.
func IsNotFound(err error) bool {
	return IsCode(err, ErrCodeNotFound)
}

// GetCode extracts the ErrorCode from the first *AppError in err's chain.
// ErrCodeOK is returned for nil and ErrCodeUnknown when no AppError is present.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ErrCodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ErrCodeUnknown
}

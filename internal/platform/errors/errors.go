// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
)

// ErrorCode defines the error classes the factors tool distinguishes
// Values are stable; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodeUsage is for wrong argument counts and bad flags
	ErrorCodeUsage

	// ErrorCodeFileOpen is for input files that cannot be opened
	ErrorCodeFileOpen

	// ErrorCodeParse is for malformed numeric tokens (recoverable per line)
	ErrorCodeParse

	// ErrorCodeIO is for read/write failures after the input was opened
	ErrorCodeIO

	// ErrorCodeValidation is for option structs that fail validation
	ErrorCodeValidation

	// ErrorCodeCanceled is for runs stopped by context cancellation
	ErrorCodeCanceled
)

// String returns a short label for logs
func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeUsage:
		return "usage"
	case ErrorCodeFileOpen:
		return "file_open"
	case ErrorCodeParse:
		return "parse"
	case ErrorCodeIO:
		return "io"
	case ErrorCodeValidation:
		return "validation"
	case ErrorCodeCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// ExitCodeOf turns an ErrorCode into a process exit status.
// Every failure exits 1 except an interrupted run (128+SIGINT)
func ExitCodeOf(c ErrorCode) int {
	if c == ErrorCodeCanceled {
		return 130
	}
	return 1
}

// Error is the structured error type with wrapping and metadata
// msg is human facing; code is machine facing
// field is optional (for validation); op is optional operation tag
// orig is the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// ExitCode returns the process exit status for any error; nil maps to 0
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return ExitCodeOf(CodeOf(err))
}

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Is re-exports errors.Is so callers need a single errors import
func Is(err, target error) bool { return stderrs.Is(err, target) }

// Mutators (copy-on-write)

// WithField attaches a field to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// Sugar

// Usagef returns a usage error
func Usagef(format string, a ...any) error { return Newf(ErrorCodeUsage, format, a...) }

// FileOpenf wraps an open failure
func FileOpenf(orig error, format string, a ...any) error {
	return Wrapf(orig, ErrorCodeFileOpen, format, a...)
}

// Parsef returns a parse error
func Parsef(format string, a ...any) error { return Newf(ErrorCodeParse, format, a...) }

// IOf wraps a read/write failure
func IOf(orig error, format string, a ...any) error { return Wrapf(orig, ErrorCodeIO, format, a...) }

// Validationf returns a validation error
func Validationf(format string, a ...any) error { return Newf(ErrorCodeValidation, format, a...) }

// Recoverable reports whether processing may continue after err.
// Only per-token parse failures are recoverable
func Recoverable(err error) bool { return IsCode(err, ErrorCodeParse) }

// Package errors provides structured error handling for the datatable engine.
//
// Every failure raised while loading or constructing a table carries one of
// the ErrorType kinds below, a message, optional key/value details (column
// index, offending value, path, limit) and the stack where it was created.
// Errors are never retried internally; they propagate to the caller of the
// load or construction operation.
package errors

import (
	"errors"
	"runtime"
	"sort"

	stringpool "github.com/Cheburusska/datatable/pkg/strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeSchema means the colspec table has the wrong shape or column types
	ErrorTypeSchema ErrorType = "schema"
	// ErrorTypeFormat means on-disk metadata could not be decoded
	ErrorTypeFormat ErrorType = "format"
	// ErrorTypePath means a combined file path exceeds the configured bound
	ErrorTypePath ErrorType = "path"
	// ErrorTypeIO means a column file is missing, unreadable or too small
	ErrorTypeIO ErrorType = "io"
	// ErrorTypeInvariant means a table or column invariant would be broken
	ErrorTypeInvariant ErrorType = "invariant"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface. Details are appended in key order
// so that messages are stable.
func (e *Error) Error() string {
	msg := stringpool.Sprintf("%s: %s", e.Type, e.Message)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = stringpool.Sprintf("%s [%s=%v]", msg, k, e.Details[k])
		}
	}
	if e.Cause != nil {
		return stringpool.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Detail returns the detail stored under key, if any
func (e *Error) Detail(key string) (interface{}, bool) {
	v, ok := e.Details[key]
	return v, ok
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: stringpool.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type. Only the outermost
// structured error is considered, so a wrapped I/O failure reported as a
// format error is a format error.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// TypeOf returns the type of the outermost structured error, or "" when err
// is not one.
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Type
}

// As is a re-export of the standard library errors.As so callers importing
// this package under the name errors keep access to it.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Is is a re-export of the standard library errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}

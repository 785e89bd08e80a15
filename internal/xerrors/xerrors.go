// Package xerrors is a stack-capturing error wrapper, adapted from
// timtadh-fs2/errors. The facade uses it internally to give a device
// failure a stack trace for its log line before translating it into a
// status.Code at the public boundary; callers of the public API never
// see an xerrors.Error directly.
package xerrors

import (
	"fmt"
	"runtime"
)

// Error pairs an underlying error with the stack at the point it was
// wrapped.
type Error struct {
	Err   error
	Stack []byte
}

// Errorf builds a new Error the way fmt.Errorf builds an error, but
// additionally captures the current goroutine's stack.
func Errorf(format string, args ...interface{}) error {
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	trace := make([]byte, n)
	copy(trace, buf)
	return &Error{
		Err:   fmt.Errorf(format, args...),
		Stack: trace,
	}
}

// Wrap annotates an existing error with a stack trace and message
// prefix, analogous to fmt.Errorf("%s: %w", msg, err) plus the trace.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return Errorf("%s: %w", msg, err)
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StackTrace returns the captured stack as a string, for logging.
func (e *Error) StackTrace() string {
	return string(e.Stack)
}

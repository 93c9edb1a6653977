// Package errors holds the user facing StrataError codes and a github.com/pkg/errors compatible API for
// wrapping internal errors with stack traces.
//
// Wrapping the same error several times on its way up the call stack normally produces a stack trace per
// wrap. The stack traces produced here are collapsed when they share a caller with the wrapped error, so a
// logged error usually carries only the root trace.
package errors

import (
	stderrors "errors" //nolint: depguard
	"fmt"
	"io"
	"runtime"

	"github.com/pkg/errors" //nolint: depguard
)

// New returns an error with the supplied message and the stack trace at the point it was called.
func New(message string) error {
	return newStackErr(nil, message)
}

// Errorf formats according to a format specifier and records the stack trace at the point it was called.
func Errorf(format string, args ...interface{}) error {
	return newStackErr(nil, fmt.Sprintf(format, args...))
}

// Error is shorthand for New.
func Error(msg string) error {
	return newStackErr(nil, msg)
}

// Wrap annotates err with a message and a stack trace. Wrap returns nil if err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return newStackErr(err, message)
}

// Wrapf annotates err with a formatted message and a stack trace. Wrapf returns nil if err is nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return newStackErr(err, fmt.Sprintf(format, args...))
}

// WithStack annotates err with a stack trace. WithStack returns nil if err is nil.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	return newStackErr(err, "")
}

// Cause returns the innermost error of the chain built with this package or github.com/pkg/errors.
func Cause(err error) error {
	for err != nil {
		c, ok := err.(causer)
		if !ok || c.Cause() == nil {
			break
		}
		err = c.Cause()
	}
	return err
}

func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target interface{}) bool { return stderrors.As(err, target) }

type stackErr struct {
	cause error
	stack errors.StackTrace
	msg   string
}

func newStackErr(cause error, msg string) error {
	// drop this frame and the public api frame that called it
	stack := errors.New("").(stackTracer).StackTrace()[2:]
	return &stackErr{
		cause: cause,
		stack: stack,
		msg:   msg,
	}
}

func (e *stackErr) Error() string {
	if e.cause != nil {
		if e.msg != "" {
			return e.msg + ": " + e.cause.Error()
		}
		return e.cause.Error()
	}
	return e.msg
}

func (e *stackErr) Cause() error { return e.cause }

func (e *stackErr) Unwrap() error { return e.cause }

// StackTrace returns nil when the wrapped error already carries a stack trace from the same call chain.
func (e *stackErr) StackTrace() errors.StackTrace {
	var cStack errors.StackTrace
	if pCause, ok := e.cause.(*stackErr); ok {
		cStack = pCause.stack
	} else if sCause, ok := e.cause.(stackTracer); ok {
		cStack = sCause.StackTrace()
	}
	if cStack == nil || len(cStack) < len(e.stack) {
		return e.stack
	}
	for i := 1; i < len(e.stack); i++ {
		if cStack[len(cStack)-i] != e.stack[len(e.stack)-i] {
			return e.stack
		}
	}
	// the top frame differs by line for the usual `return errors.WithStack(err)` idiom, compare functions only
	if sameFn(cStack[len(cStack)-len(e.stack)], e.stack[0]) {
		return nil
	}
	return e.stack
}

func sameFn(f1 errors.Frame, f2 errors.Frame) bool {
	fn1 := runtime.FuncForPC(uintptr(f1) - 1)
	fn2 := runtime.FuncForPC(uintptr(f2) - 1)
	if fn1 == nil || fn2 == nil {
		return false
	}
	file1, _ := fn1.FileLine(uintptr(f1) - 1)
	file2, _ := fn2.FileLine(uintptr(f2) - 1)
	return file1 == file2 && fn1.Name() == fn2.Name()
}

// nolint:errcheck
func (e *stackErr) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			if e.cause != nil {
				fmt.Fprintf(s, "%+v", e.cause)
			}
			if e.msg != "" {
				if e.cause != nil {
					io.WriteString(s, "\n")
				}
				io.WriteString(s, e.msg)
			}
			if stack := e.StackTrace(); stack != nil {
				fmt.Fprintf(s, "%+v", stack)
			}
			return
		}
		io.WriteString(s, e.Error())
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

type causer interface {
	Cause() error
}

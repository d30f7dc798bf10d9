package errors

import (
	"fmt"
	"io"
	"reflect"

	"github.com/pkg/errors"
)

// usedCodes ensures no two root errors share a code. Code 1 belongs to
// errors that were never registered.
var usedCodes = map[uint32]*Error{
	1: {code: 1, desc: internalABCILog},
}

// Register declares a root error with an ABCI code. It panics when the code
// is taken, so it must only be called while initializing packages.
func Register(code uint32, description string) *Error {
	if prev, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error code %d is already registered for %q", code, prev.desc))
	}
	e := &Error{code: code, desc: description}
	usedCodes[code] = e
	return e
}

// Error is a root error. Errors returned at runtime wrap one of them, which
// gives every failure a stable code clients can act upon.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// New wraps the root error with a description. It is a shortcut for
// Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Is reports whether err is, or wraps, this root error. A nil kind matches
// only a nil error, including a typed nil.
func (kind *Error) Is(err error) bool {
	if kind == nil {
		if err == nil {
			return true
		}
		v := reflect.ValueOf(err)
		return v.Kind() == reflect.Ptr && v.IsNil()
	}
	for err != nil {
		if err == kind {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap adds a description to err. A stack trace is attached by the innermost
// wrap only. Wrapping nil returns nil, so the result of a call can be
// wrapped without checking it first.
//
// An error that does not wrap a registered root results in the internal
// ABCI code.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{msg: description, parent: err}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Unwrap allows inspecting the chain with the standard library errors
// package.
func (e *wrappedError) Unwrap() error {
	return e.parent
}

// Format writes the message followed by the stack trace for %+v, and the
// message only for any other verb.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	io.WriteString(s, e.Error())
	if verb != 'v' || !s.Flag('+') {
		return
	}
	if st := stackTrace(e); st != nil {
		fmt.Fprintf(s, "%+v", st)
	}
}

// Recover turns a panic into an ErrPanic assigned to err. It must be
// called with defer.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

// stackTrace returns the first stack trace found in the chain of err.
func stackTrace(err error) errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}

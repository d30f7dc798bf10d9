package errors

import (
	"fmt"
	"reflect"
)

const (
	// SuccessABCICode is the code of a processed transaction or query.
	SuccessABCICode = 0

	// internalABCICode groups all errors that were not created from
	// a registered error. Their message is an implementation detail.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of an ABCI response reporting given error.
//
// Registered errors expose their code and full message, so a client can tell
// a missing jar from an insufficient balance. Any other error is reported
// with code 1 and a generic log. A recovered panic keeps its code but not its
// message. In debug mode the log is always the full error, including the stack
// trace when one was recorded.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}

	code := Code(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	case ErrPanic.Is(err):
		return code, ErrPanic.desc
	default:
		return code, err.Error()
	}
}

// Code returns the ABCI code carried by given error or any error it wraps.
// Errors without a code are internal and reported with code 1.
func Code(err error) uint32 {
	if errIsNil(err) {
		return SuccessABCICode
	}
	type coder interface {
		ABCICode() uint32
	}
	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			return internalABCICode
		}
		err = c.Cause()
	}
}

// errIsNil returns true for a nil error as well as for an error interface
// holding a nil pointer.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	val := reflect.ValueOf(err)
	return val.Kind() == reflect.Ptr && val.IsNil()
}

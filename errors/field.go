package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Field wraps err as a failure of a single struct field, named the Go way
// (JarID, Owner). The description may be a format for args. A nil err
// gives nil.
func Field(field string, err error, description string, args ...interface{}) error {
	if errIsNil(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{field: field, desc: description, parent: err}
}

// AppendField appends a failure of field to errs. A nil fieldErr leaves
// errs unchanged.
func AppendField(errs error, field string, fieldErr error) error {
	return Append(errs, Field(field, fieldErr, ""))
}

type fieldError struct {
	field  string
	desc   string
	parent error
}

func (e *fieldError) Error() string {
	if e.desc == "" {
		return fmt.Sprintf("field %q: %s", e.field, e.parent)
	}
	return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
}

func (e *fieldError) Cause() error {
	return e.parent
}

func (e *fieldError) Unwrap() error {
	return e.parent
}

// FieldErrors returns the failures of given field found in err. Every
// error collected with Append is inspected.
func FieldErrors(err error, field string) []error {
	var found []error
	for !errIsNil(err) {
		switch e := err.(type) {
		case *fieldError:
			if e.field == field {
				return append(found, e)
			}
		case *multiError:
			for _, inner := range e.errs {
				found = append(found, FieldErrors(inner, field)...)
			}
			return found
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return found
}

// Append collects all non nil errors into one. Collections are flattened. A
// single remaining error is returned as it is.
//
// Is and ABCICode of a collection are those of its first error.
func Append(errs ...error) error {
	var all []error
	for _, e := range errs {
		switch m := e.(type) {
		case *multiError:
			if m != nil {
				all = append(all, m.errs...)
			}
		default:
			if !errIsNil(e) {
				all = append(all, e)
			}
		}
	}
	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	default:
		return &multiError{errs: all}
	}
}

type multiError struct {
	errs []error
}

func (m *multiError) Error() string {
	msgs := make([]string, len(m.errs))
	for i, e := range m.errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d errors occurred: %s", len(m.errs), strings.Join(msgs, "; "))
}

// Cause returns the first error, so that kind tests fail fast.
func (m *multiError) Cause() error {
	return m.errs[0]
}

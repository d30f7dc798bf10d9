/*
Package assert provides the handful of assertions used across the tip jar
tests. Comparison and panic detection are delegated to testify, error
matching understands the registered error codes of the errors package.

Every assertion stops the test on failure.
*/
package assert

import (
	"github.com/iov-one/tipjar/errors"
	"github.com/stretchr/testify/require"
)

// Tester is the part of testing.TB the assertions need.
type Tester interface {
	Helper()
	Errorf(string, ...interface{})
	Logf(string, ...interface{})
	FailNow()
}

// Nil fails the test if given value is not nil. Typed nil pointers, maps and
// slices are nil as well.
func Nil(t Tester, value interface{}) {
	t.Helper()
	// %+v prints the stack of errors created by the errors package.
	require.Nil(t, value, "%+v", value)
}

// Equal fails the test if two values are not equal. Byte slices are compared
// by content, everything else is deeply compared.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	require.Equal(t, want, got)
}

// Panics fails the test if given function call returns without panicking.
func Panics(t Tester, fn func()) {
	t.Helper()
	require.Panics(t, fn)
}

// IsErr fails the test unless got is want or want matches it. A nil want
// requires no error.
func IsErr(t Tester, want, got error) {
	t.Helper()
	if errorMatch(want, got) {
		return
	}
	t.Errorf("want %q error, got %+v", want, got)
	t.FailNow()
}

// errorMatch treats a nil *errors.Error want, as declared by table tests,
// the same as a nil interface.
func errorMatch(want, got error) bool {
	if want == got {
		return true
	}
	if want == nil {
		want = (*errors.Error)(nil)
	}
	if m, ok := want.(interface{ Is(error) bool }); ok {
		return m.Is(got)
	}
	return false
}

// FieldError checks the errors reported for a single field. A nil want
// requires that the field has no error at all. Otherwise exactly one error
// matching want must be attached to the field.
func FieldError(t Tester, err error, fieldName string, want *errors.Error) {
	t.Helper()

	errs := errors.FieldErrors(err, fieldName)
	if want == nil {
		if len(errs) != 0 {
			logAll(t, errs)
			t.Errorf("want no %q field error, got %d", fieldName, len(errs))
			t.FailNow()
		}
		return
	}

	switch len(errs) {
	case 0:
		t.Errorf("no %q field error", fieldName)
		t.FailNow()
	case 1:
		if !want.Is(errs[0]) {
			t.Errorf("want %q field error to be %q, got %q", fieldName, want, errs[0])
			t.FailNow()
		}
	default:
		logAll(t, errs)
		t.Errorf("want one %q field error, got %d", fieldName, len(errs))
		t.FailNow()
	}
}

func logAll(t Tester, errs []error) {
	for i, e := range errs {
		t.Logf("\terror %d: %q", i+1, e)
	}
}

package weave

import (
	"reflect"

	"github.com/iov-one/tipjar/errors"
)

// Marshaller is anything that has a binary representation. Marshal may
// validate the value first, so errors are expected for invalid data.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent can be written to and read from its binary representation.
// Unmarshal almost always needs a pointer receiver, which is why it is not
// part of Marshaller.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is a request for a single state change. It carries no
// authentication, that is the job of the enclosing Tx.
type Msg interface {
	Persistent

	// Path routes the message to its handler. It must match
	// [0-9A-Za-z_\-/]+ and is, by convention, "<extension>/<action>".
	Path() string

	// Validate returns an error if the message is not self consistent.
	// It must not access the state.
	Validate() error
}

// Tx is the envelope submitted by a client. Every application defines its
// own concrete Tx, that satisfies the interfaces its decorators expect.
type Tx interface {
	Persistent

	// GetMsg returns the single message of the transaction.
	GetMsg() (Msg, error)
}

// TxDecoder parses raw transaction bytes.
type TxDecoder func(txBytes []byte) (Tx, error)

// GetPath returns the path of the transaction message, or "(missing)".
func GetPath(tx Tx) string {
	if tx == nil {
		return "(missing)"
	}
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg copies the message of the transaction into destination, which
// must be a pointer to the message type, and validates it.
//
//	var msg tipjar.TipMsg
//	if err := weave.LoadMsg(tx, &msg); err != nil { ... }
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	switch {
	case err != nil:
		return errors.Wrap(err, "cannot get transaction message")
	case msg == nil:
		return errors.Wrap(errors.ErrMsg, "transaction carries no message")
	}

	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrapf(errors.ErrType, "destination must be a non nil pointer, got %T", destination)
	}
	src := reflect.Indirect(reflect.ValueOf(msg))
	if !src.Type().AssignableTo(dst.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "expected %T, got %T", destination, msg)
	}
	dst.Elem().Set(src)

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}

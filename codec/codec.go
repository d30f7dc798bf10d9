/*
Package codec serializes persisted models, messages and transactions with
the gogo/protobuf reflection marshaller.

A serializable type declares its wire layout with protobuf struct tags. Its
Marshal and Unmarshal methods convert the value to a twin type that has no
methods other than those of proto.Message, as proto.Marshal calls the Marshal
method of a message when it has one:

	type Wallet struct {
		Balance uint64 `protobuf:"varint,1,opt,name=balance,proto3"`
	}

	type walletMsg Wallet

	func (m *walletMsg) Reset()         { *m = walletMsg{} }
	func (m *walletMsg) String() string { return proto.CompactTextString(m) }
	func (*walletMsg) ProtoMessage()    {}

	func (w *Wallet) Marshal() ([]byte, error)   { return codec.Marshal((*walletMsg)(w)) }
	func (w *Wallet) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*walletMsg)(w)) }

Field numbers are stable and must never be reused. Embedded messages are
encoded with their own Marshal method and decoded from their struct tags.
*/
package codec

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tipjar/errors"
)

// Marshal encodes m. An empty message encodes to an empty, non nil slice.
func Marshal(m proto.Message) ([]byte, error) {
	raw, err := proto.Marshal(m)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "encode %T: %s", m, err)
	}
	return raw, nil
}

// Unmarshal resets m and decodes raw into it. Malformed input is ErrInput.
// Fields unknown to m are dropped.
func Unmarshal(raw []byte, m proto.Message) error {
	if err := proto.Unmarshal(raw, m); err != nil {
		return errors.Wrapf(errors.ErrInput, "decode %T: %s", m, err)
	}
	return nil
}

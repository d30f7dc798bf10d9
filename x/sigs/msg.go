package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tipjar/codec"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
)

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

// BumpSequenceMsg increments the nonce of the signer by given value,
// invalidating all transactions signed with a lower nonce.
type BumpSequenceMsg struct {
	Increment uint32 `protobuf:"varint,1,opt,name=increment,proto3" json:"increment,omitempty"`
}

var _ weave.Msg = (*BumpSequenceMsg)(nil)

func (msg *BumpSequenceMsg) Validate() error {
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}

func (msg *BumpSequenceMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*bumpSequenceMsg)(msg))
}

func (msg *BumpSequenceMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*bumpSequenceMsg)(msg))
}

type bumpSequenceMsg BumpSequenceMsg

func (m *bumpSequenceMsg) Reset()         { *m = bumpSequenceMsg{} }
func (m *bumpSequenceMsg) String() string { return proto.CompactTextString(m) }
func (*bumpSequenceMsg) ProtoMessage()    {}

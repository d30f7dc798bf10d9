package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tipjar/codec"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
)

// Ensure we implement the Msg interface
var _ weave.Msg = (*SendMsg)(nil)

const (
	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg requests a transfer of Amount from Source to Destination.
type SendMsg struct {
	// Source defaults to the main signer of the transaction.
	Source      weave.Address `protobuf:"bytes,1,opt,name=source,proto3,casttype=github.com/iov-one/tipjar/weave.Address" json:"source,omitempty"`
	Destination weave.Address `protobuf:"bytes,2,opt,name=destination,proto3,casttype=github.com/iov-one/tipjar/weave.Address" json:"destination,omitempty"`
	Amount      uint64        `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string        `protobuf:"bytes,4,opt,name=memo,proto3" json:"memo,omitempty"`
}

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	var err error
	if m.Amount == 0 {
		err = errors.AppendField(err, "Amount", errors.ErrAmount)
	}
	if len(m.Source) != 0 {
		err = errors.AppendField(err, "Source", m.Source.Validate())
	}
	err = errors.AppendField(err, "Destination", m.Destination.Validate())
	if len(m.Memo) > maxMemoSize {
		err = errors.AppendField(err, "Memo", errors.Wrap(errors.ErrInput, "memo too long"))
	}
	return err
}

func (m *SendMsg) Marshal() ([]byte, error)   { return codec.Marshal((*sendMsg)(m)) }
func (m *SendMsg) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*sendMsg)(m)) }

type sendMsg SendMsg

func (m *sendMsg) Reset()         { *m = sendMsg{} }
func (m *sendMsg) String() string { return proto.CompactTextString(m) }
func (*sendMsg) ProtoMessage()    {}

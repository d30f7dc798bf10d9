package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tipjar/codec"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/x/cash"
	"github.com/iov-one/tipjar/x/sigs"
	"github.com/iov-one/tipjar/x/tipjar"
)

// txMsg is the wire layout of Tx. At most one message field is set.
type txMsg struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures"`

	SendMsg                *cash.SendMsg                  `protobuf:"bytes,10,opt,name=send_msg,json=sendMsg"`
	BumpSequenceMsg        *sigs.BumpSequenceMsg          `protobuf:"bytes,11,opt,name=bump_sequence_msg,json=bumpSequenceMsg"`
	InitializeMsg          *tipjar.InitializeMsg          `protobuf:"bytes,20,opt,name=initialize_msg,json=initializeMsg"`
	TipMsg                 *tipjar.TipMsg                 `protobuf:"bytes,21,opt,name=tip_msg,json=tipMsg"`
	WithdrawMsg            *tipjar.WithdrawMsg            `protobuf:"bytes,22,opt,name=withdraw_msg,json=withdrawMsg"`
	UpdateConfigurationMsg *tipjar.UpdateConfigurationMsg `protobuf:"bytes,23,opt,name=update_configuration_msg,json=updateConfigurationMsg"`

	XXX_unrecognized []byte
}

func (m *txMsg) Reset()         { *m = txMsg{} }
func (m *txMsg) String() string { return proto.CompactTextString(m) }
func (*txMsg) ProtoMessage()    {}

// setMsg puts msg into its field.
func (m *txMsg) setMsg(msg weave.Msg) error {
	switch msg := msg.(type) {
	case nil:
	case *cash.SendMsg:
		m.SendMsg = msg
	case *sigs.BumpSequenceMsg:
		m.BumpSequenceMsg = msg
	case *tipjar.InitializeMsg:
		m.InitializeMsg = msg
	case *tipjar.TipMsg:
		m.TipMsg = msg
	case *tipjar.WithdrawMsg:
		m.WithdrawMsg = msg
	case *tipjar.UpdateConfigurationMsg:
		m.UpdateConfigurationMsg = msg
	default:
		return errors.Wrapf(errors.ErrType, "unsupported message %T", msg)
	}
	return nil
}

// msg returns the only message field set, or nil.
func (m *txMsg) msg() (weave.Msg, error) {
	var found []weave.Msg
	if m.SendMsg != nil {
		found = append(found, m.SendMsg)
	}
	if m.BumpSequenceMsg != nil {
		found = append(found, m.BumpSequenceMsg)
	}
	if m.InitializeMsg != nil {
		found = append(found, m.InitializeMsg)
	}
	if m.TipMsg != nil {
		found = append(found, m.TipMsg)
	}
	if m.WithdrawMsg != nil {
		found = append(found, m.WithdrawMsg)
	}
	if m.UpdateConfigurationMsg != nil {
		found = append(found, m.UpdateConfigurationMsg)
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	}
	return nil, errors.Wrapf(errors.ErrInput, "%d messages in one transaction", len(found))
}

// Tx is the transaction of the tip jar chain. It carries a single message
// and the signatures authorizing it.
type Tx struct {
	Signatures []*sigs.StdSignature
	Msg        weave.Msg
}

// make sure tx fulfills all interfaces
var _ weave.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (weave.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// GetMsg returns the single message of the transaction.
func (tx *Tx) GetMsg() (weave.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrMsg, "transaction without a message")
	}
	return tx.Msg, nil
}

// GetSignatures returns all signatures of the transaction.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// the sign bytes come from the data itself, not previous signatures
	return tx.marshal(false)
}

func (tx *Tx) Marshal() ([]byte, error) {
	return tx.marshal(true)
}

func (tx *Tx) marshal(withSignatures bool) ([]byte, error) {
	var m txMsg
	if err := m.setMsg(tx.Msg); err != nil {
		return nil, err
	}
	if withSignatures {
		for _, s := range tx.Signatures {
			if s != nil {
				m.Signatures = append(m.Signatures, s)
			}
		}
	}
	return codec.Marshal(&m)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	var m txMsg
	if err := codec.Unmarshal(raw, &m); err != nil {
		return errors.Wrap(err, "transaction")
	}
	if len(m.XXX_unrecognized) != 0 {
		return errors.Wrap(errors.ErrInput, "unknown transaction field")
	}
	msg, err := m.msg()
	if err != nil {
		return err
	}
	tx.Signatures = m.Signatures
	tx.Msg = msg
	return nil
}

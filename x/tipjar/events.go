package tipjar

import (
	"encoding/hex"
	"strconv"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tipjar/codec"
	"github.com/iov-one/tipjar/weave"
	"github.com/tendermint/tendermint/libs/common"
)

// Event kinds emitted by this extension.
const (
	KindJarInitialized = "tipjar.jar_initialized"
	KindTipped         = "tipjar.tipped"
	KindWithdrawn      = "tipjar.withdrawn"
)

// Tag keys used by event attributes.
const (
	TagJar         = "tipjar.jar"
	TagOwner       = "tipjar.owner"
	TagFrom        = "tipjar.from"
	TagDestination = "tipjar.destination"
	TagAmount      = "tipjar.amount"
)

var (
	_ weave.Event = (*JarInitializedEvent)(nil)
	_ weave.Event = (*TippedEvent)(nil)
	_ weave.Event = (*WithdrawnEvent)(nil)
)

func tag(key, value string) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: []byte(value)}
}

// JarInitializedEvent is emitted when a jar is created.
type JarInitializedEvent struct {
	JarID []byte        `protobuf:"bytes,1,opt,name=jar_id,json=jarId,proto3" json:"jar_id,omitempty"`
	Owner weave.Address `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/tipjar/weave.Address" json:"owner,omitempty"`
}

func (JarInitializedEvent) Kind() string { return KindJarInitialized }

func (e *JarInitializedEvent) Attributes() []common.KVPair {
	return []common.KVPair{
		tag(TagJar, hex.EncodeToString(e.JarID)),
		tag(TagOwner, e.Owner.String()),
	}
}

func (e *JarInitializedEvent) Marshal() ([]byte, error)   { return codec.Marshal((*jarInitializedMsg)(e)) }
func (e *JarInitializedEvent) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*jarInitializedMsg)(e)) }

// TippedEvent is emitted when value was deposited into a jar.
type TippedEvent struct {
	JarID  []byte        `protobuf:"bytes,1,opt,name=jar_id,json=jarId,proto3" json:"jar_id,omitempty"`
	From   weave.Address `protobuf:"bytes,2,opt,name=from,proto3,casttype=github.com/iov-one/tipjar/weave.Address" json:"from,omitempty"`
	Amount uint64        `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (TippedEvent) Kind() string { return KindTipped }

func (e *TippedEvent) Attributes() []common.KVPair {
	return []common.KVPair{
		tag(TagJar, hex.EncodeToString(e.JarID)),
		tag(TagFrom, e.From.String()),
		tag(TagAmount, strconv.FormatUint(e.Amount, 10)),
	}
}

func (e *TippedEvent) Marshal() ([]byte, error)   { return codec.Marshal((*tippedMsg)(e)) }
func (e *TippedEvent) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*tippedMsg)(e)) }

// WithdrawnEvent is emitted when the owner drained the jar custody.
type WithdrawnEvent struct {
	JarID       []byte        `protobuf:"bytes,1,opt,name=jar_id,json=jarId,proto3" json:"jar_id,omitempty"`
	Owner       weave.Address `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/tipjar/weave.Address" json:"owner,omitempty"`
	Destination weave.Address `protobuf:"bytes,3,opt,name=destination,proto3,casttype=github.com/iov-one/tipjar/weave.Address" json:"destination,omitempty"`
	Amount      uint64        `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (WithdrawnEvent) Kind() string { return KindWithdrawn }

func (e *WithdrawnEvent) Attributes() []common.KVPair {
	return []common.KVPair{
		tag(TagJar, hex.EncodeToString(e.JarID)),
		tag(TagOwner, e.Owner.String()),
		tag(TagDestination, e.Destination.String()),
		tag(TagAmount, strconv.FormatUint(e.Amount, 10)),
	}
}

func (e *WithdrawnEvent) Marshal() ([]byte, error)   { return codec.Marshal((*withdrawnMsg)(e)) }
func (e *WithdrawnEvent) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*withdrawnMsg)(e)) }

type jarInitializedMsg JarInitializedEvent

func (m *jarInitializedMsg) Reset()         { *m = jarInitializedMsg{} }
func (m *jarInitializedMsg) String() string { return proto.CompactTextString(m) }
func (*jarInitializedMsg) ProtoMessage()    {}

type tippedMsg TippedEvent

func (m *tippedMsg) Reset()         { *m = tippedMsg{} }
func (m *tippedMsg) String() string { return proto.CompactTextString(m) }
func (*tippedMsg) ProtoMessage()    {}

type withdrawnMsg WithdrawnEvent

func (m *withdrawnMsg) Reset()         { *m = withdrawnMsg{} }
func (m *withdrawnMsg) String() string { return proto.CompactTextString(m) }
func (*withdrawnMsg) ProtoMessage()    {}

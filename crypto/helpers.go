package crypto

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tipjar/codec"
	"github.com/iov-one/tipjar/weave"
)

// ExtensionName is used for the conditions we get from signatures
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() weave.Condition
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key as stored on chain.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// Address returns the address controlled by this key.
func (p *PublicKey) Address() weave.Address {
	return p.Condition().Address()
}

func (p *PublicKey) Marshal() ([]byte, error)   { return codec.Marshal((*publicKeyMsg)(p)) }
func (p *PublicKey) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*publicKeyMsg)(p)) }

// PrivateKey is an ed25519 private key. It never leaves the client.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (p *PrivateKey) Marshal() ([]byte, error)   { return codec.Marshal((*privateKeyMsg)(p)) }
func (p *PrivateKey) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*privateKeyMsg)(p)) }

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

func (s *Signature) Marshal() ([]byte, error)   { return codec.Marshal((*signatureMsg)(s)) }
func (s *Signature) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*signatureMsg)(s)) }

type publicKeyMsg PublicKey

func (m *publicKeyMsg) Reset()         { *m = publicKeyMsg{} }
func (m *publicKeyMsg) String() string { return proto.CompactTextString(m) }
func (*publicKeyMsg) ProtoMessage()    {}

type privateKeyMsg PrivateKey

func (m *privateKeyMsg) Reset()         { *m = privateKeyMsg{} }
func (m *privateKeyMsg) String() string { return proto.CompactTextString(m) }
func (*privateKeyMsg) ProtoMessage()    {}

type signatureMsg Signature

func (m *signatureMsg) Reset()         { *m = signatureMsg{} }
func (m *signatureMsg) String() string { return proto.CompactTextString(m) }
func (*signatureMsg) ProtoMessage()    {}

package tipjar

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tipjar/codec"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/gconf"
	"github.com/iov-one/tipjar/weave"
)

const (
	pathInitializeMsg          = "tipjar/initialize"
	pathTipMsg                 = "tipjar/tip"
	pathWithdrawMsg            = "tipjar/withdraw"
	pathUpdateConfigurationMsg = "tipjar/update_configuration"

	minJarIDLen = 8
	maxJarIDLen = 32
)

var (
	_ weave.Msg = (*InitializeMsg)(nil)
	_ weave.Msg = (*TipMsg)(nil)
	_ weave.Msg = (*WithdrawMsg)(nil)
	_ weave.Msg = (*UpdateConfigurationMsg)(nil)

	_ gconf.Patcher = (*UpdateConfigurationMsg)(nil)
)

func validJarID(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "jar id")
	}
	if len(id) < minJarIDLen || len(id) > maxJarIDLen {
		return errors.Wrapf(errors.ErrInput, "jar id must be %d to %d bytes", minJarIDLen, maxJarIDLen)
	}
	return nil
}

// validOptionalAddress validates an address that defaults to the main signer
// when not set.
func validOptionalAddress(a weave.Address) error {
	if len(a) == 0 {
		return nil
	}
	return a.Validate()
}

// InitializeMsg creates a jar owned by Owner under JarID.
type InitializeMsg struct {
	JarID []byte        `protobuf:"bytes,1,opt,name=jar_id,json=jarId,proto3" json:"jar_id,omitempty"`
	Owner weave.Address `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/tipjar/weave.Address" json:"owner,omitempty"`
	// Payer pays the allocation fee. Defaults to the main signer.
	Payer weave.Address `protobuf:"bytes,3,opt,name=payer,proto3,casttype=github.com/iov-one/tipjar/weave.Address" json:"payer,omitempty"`
}

func (InitializeMsg) Path() string {
	return pathInitializeMsg
}

func (m *InitializeMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "JarID", validJarID(m.JarID))
	errs = errors.AppendField(errs, "Owner", m.Owner.Validate())
	errs = errors.AppendField(errs, "Payer", validOptionalAddress(m.Payer))
	return errs
}

func (m *InitializeMsg) Marshal() ([]byte, error)   { return codec.Marshal((*initializeMsg)(m)) }
func (m *InitializeMsg) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*initializeMsg)(m)) }

// TipMsg moves Amount from Tipper into the custody of the jar.
type TipMsg struct {
	JarID []byte `protobuf:"bytes,1,opt,name=jar_id,json=jarId,proto3" json:"jar_id,omitempty"`
	// Tipper is the source of the funds. Defaults to the main signer.
	Tipper weave.Address `protobuf:"bytes,2,opt,name=tipper,proto3,casttype=github.com/iov-one/tipjar/weave.Address" json:"tipper,omitempty"`
	Amount uint64        `protobuf:"varint,3,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (TipMsg) Path() string {
	return pathTipMsg
}

func (m *TipMsg) Validate() error {
	var errs error
	if m.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", ErrZeroAmount)
	}
	errs = errors.AppendField(errs, "JarID", validJarID(m.JarID))
	errs = errors.AppendField(errs, "Tipper", validOptionalAddress(m.Tipper))
	return errs
}

func (m *TipMsg) Marshal() ([]byte, error)   { return codec.Marshal((*tipMsg)(m)) }
func (m *TipMsg) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*tipMsg)(m)) }

// WithdrawMsg moves the whole jar custody balance to Destination.
type WithdrawMsg struct {
	JarID []byte `protobuf:"bytes,1,opt,name=jar_id,json=jarId,proto3" json:"jar_id,omitempty"`
	// Owner must match the jar owner. Defaults to the main signer.
	Owner       weave.Address `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/tipjar/weave.Address" json:"owner,omitempty"`
	Destination weave.Address `protobuf:"bytes,3,opt,name=destination,proto3,casttype=github.com/iov-one/tipjar/weave.Address" json:"destination,omitempty"`
}

func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

func (m *WithdrawMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "JarID", validJarID(m.JarID))
	errs = errors.AppendField(errs, "Owner", validOptionalAddress(m.Owner))
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	return errs
}

func (m *WithdrawMsg) Marshal() ([]byte, error)   { return codec.Marshal((*withdrawMsg)(m)) }
func (m *WithdrawMsg) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*withdrawMsg)(m)) }

// UpdateConfigurationMsg patches the tip jar configuration. Only non zero
// fields of the patch are applied.
type UpdateConfigurationMsg struct {
	Patch *Configuration `protobuf:"bytes,1,opt,name=patch" json:"patch,omitempty"`
}

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "required")
	}
	// The patched configuration is validated when saved, a patch may
	// carry a fee without a collector.
	var errs error
	errs = errors.AppendField(errs, "Patch.Owner", validOptionalAddress(m.Patch.Owner))
	errs = errors.AppendField(errs, "Patch.FeeCollector", validOptionalAddress(m.Patch.FeeCollector))
	return errs
}

// Apply copies the non zero fields of the patch onto the current
// configuration.
func (m *UpdateConfigurationMsg) Apply(current gconf.OwnedConfig) error {
	conf, ok := current.(*Configuration)
	if !ok {
		return errors.Wrapf(errors.ErrType, "%T is not a tipjar configuration", current)
	}
	if len(m.Patch.Owner) != 0 {
		conf.Owner = m.Patch.Owner
	}
	if len(m.Patch.FeeCollector) != 0 {
		conf.FeeCollector = m.Patch.FeeCollector
	}
	if m.Patch.AllocationFee != 0 {
		conf.AllocationFee = m.Patch.AllocationFee
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error)   { return codec.Marshal((*updateConfigurationMsg)(m)) }
func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*updateConfigurationMsg)(m)) }

type initializeMsg InitializeMsg

func (m *initializeMsg) Reset()         { *m = initializeMsg{} }
func (m *initializeMsg) String() string { return proto.CompactTextString(m) }
func (*initializeMsg) ProtoMessage()    {}

type tipMsg TipMsg

func (m *tipMsg) Reset()         { *m = tipMsg{} }
func (m *tipMsg) String() string { return proto.CompactTextString(m) }
func (*tipMsg) ProtoMessage()    {}

type withdrawMsg WithdrawMsg

func (m *withdrawMsg) Reset()         { *m = withdrawMsg{} }
func (m *withdrawMsg) String() string { return proto.CompactTextString(m) }
func (*withdrawMsg) ProtoMessage()    {}

type updateConfigurationMsg UpdateConfigurationMsg

func (m *updateConfigurationMsg) Reset()         { *m = updateConfigurationMsg{} }
func (m *updateConfigurationMsg) String() string { return proto.CompactTextString(m) }
func (*updateConfigurationMsg) ProtoMessage()    {}

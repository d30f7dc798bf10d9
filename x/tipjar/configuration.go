package tipjar

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tipjar/codec"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/gconf"
	"github.com/iov-one/tipjar/weave"
)

const confPkg = "tipjar"

// Configuration is the on chain configuration of the tip jar extension.
type Configuration struct {
	// Owner may update this configuration.
	Owner weave.Address `protobuf:"bytes,1,opt,name=owner,proto3,casttype=github.com/iov-one/tipjar/weave.Address" json:"owner"`
	// FeeCollector receives the allocation fee of every created jar.
	FeeCollector weave.Address `protobuf:"bytes,2,opt,name=fee_collector,json=feeCollector,proto3,casttype=github.com/iov-one/tipjar/weave.Address" json:"fee_collector"`
	// AllocationFee is paid by whoever creates a jar. Zero means free.
	AllocationFee uint64 `protobuf:"varint,3,opt,name=allocation_fee,json=allocationFee,proto3" json:"allocation_fee"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() weave.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var errs error
	if len(c.Owner) != 0 {
		errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	}
	if c.AllocationFee > 0 || len(c.FeeCollector) != 0 {
		errs = errors.AppendField(errs, "FeeCollector", c.FeeCollector.Validate())
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error)   { return codec.Marshal((*configurationMsg)(c)) }
func (c *Configuration) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*configurationMsg)(c)) }

type configurationMsg Configuration

func (m *configurationMsg) Reset()         { *m = configurationMsg{} }
func (m *configurationMsg) String() string { return proto.CompactTextString(m) }
func (*configurationMsg) ProtoMessage()    {}

// loadConf returns the current configuration. A chain without a tip jar
// configuration creates jars for free.
func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, confPkg, &conf); {
	case err == nil:
		return &conf, nil
	case errors.ErrNotFound.Is(err):
		return &Configuration{}, nil
	default:
		return nil, errors.Wrap(err, "load configuration")
	}
}

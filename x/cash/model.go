package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tipjar/codec"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/orm"
	"github.com/iov-one/tipjar/weave"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Wallet holds the balance of a single address.
type Wallet struct {
	Balance uint64 `protobuf:"varint,1,opt,name=balance,proto3" json:"balance,omitempty"`
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error)   { return codec.Marshal((*walletMsg)(w)) }
func (w *Wallet) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*walletMsg)(w)) }

type walletMsg Wallet

func (m *walletMsg) Reset()         { *m = walletMsg{} }
func (m *walletMsg) String() string { return proto.CompactTextString(m) }
func (*walletMsg) ProtoMessage()    {}

// Validate is a noop, any balance is a valid one.
func (w *Wallet) Validate() error {
	return nil
}

// Copy makes a new wallet with the same balance
func (w *Wallet) Copy() orm.Model {
	return &Wallet{Balance: w.Balance}
}

// Add increases the balance by given amount. It fails if the result does
// not fit into the balance.
func (w *Wallet) Add(amount uint64) error {
	sum := w.Balance + amount
	if sum < w.Balance {
		return errors.Wrapf(errors.ErrOverflow, "%d + %d", w.Balance, amount)
	}
	w.Balance = sum
	return nil
}

// Subtract decreases the balance by given amount. It fails if the wallet
// does not hold enough.
func (w *Wallet) Subtract(amount uint64) error {
	if w.Balance < amount {
		return errors.Wrapf(ErrInsufficientFunds, "balance %d, required %d", w.Balance, amount)
	}
	w.Balance -= amount
	return nil
}

// NewBucket returns a bucket storing wallets under their address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}

// loadWallet returns the wallet stored under given address or an empty one
// if none exists yet.
func loadWallet(b orm.ModelBucket, db weave.ReadOnlyKVStore, addr weave.Address) (*Wallet, error) {
	var w Wallet
	switch err := b.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return &Wallet{}, nil
	default:
		return nil, errors.Wrap(err, "cannot load wallet")
	}
}

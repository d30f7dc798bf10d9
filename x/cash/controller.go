package cash

import (
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/orm"
	"github.com/iov-one/tipjar/weave"
)

// Controller is the functionality needed by other extensions to move value
// between wallets.
type Controller interface {
	// Balance returns the amount held by given address. An address that
	// never received anything holds zero.
	Balance(db weave.ReadOnlyKVStore, addr weave.Address) (uint64, error)

	// MoveCoins moves the given amount from src to dest. If src doesn't
	// exist, or doesn't have sufficient funds, it fails.
	MoveCoins(db weave.KVStore, src, dest weave.Address, amount uint64) error

	// CoinMint creates new value out of nothing and adds it to the
	// destination wallet.
	CoinMint(db weave.KVStore, dest weave.Address, amount uint64) error
}

// BaseController is a simple implementation of the Controller interface.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using given bucket.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) Balance(db weave.ReadOnlyKVStore, addr weave.Address) (uint64, error) {
	if err := addr.Validate(); err != nil {
		return 0, errors.Wrap(err, "address")
	}
	w, err := loadWallet(c.bucket, db, addr)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

func (c BaseController) MoveCoins(db weave.KVStore, src, dest weave.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero value transfer")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "src")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}

	sender, err := loadWallet(c.bucket, db, src)
	if err != nil {
		return err
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}

	// Moving to itself must not touch the balance, but all funding checks
	// still apply.
	if src.Equals(dest) {
		return nil
	}

	recipient, err := loadWallet(c.bucket, db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}

	if err := c.bucket.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if err := c.bucket.Put(db, dest, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

func (c BaseController) CoinMint(db weave.KVStore, dest weave.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "dest")
	}
	w, err := loadWallet(c.bucket, db, dest)
	if err != nil {
		return err
	}
	if err := w.Add(amount); err != nil {
		return err
	}
	return c.bucket.Put(db, dest, w)
}

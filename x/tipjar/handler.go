package tipjar

import (
	"encoding/binary"

	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/gconf"
	"github.com/iov-one/tipjar/orm"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/x"
	"github.com/iov-one/tipjar/x/cash"
)

const (
	initializeCost int64 = 200
	tipCost        int64 = 100
	withdrawCost   int64 = 100
)

// RegisterQuery registers jars under "/jars" and the owner index under
// "/jars/owner".
func RegisterQuery(qr weave.QueryRouter) {
	NewJarBucket().Register("jars", qr)
}

// RegisterRoutes registers handlers for all tip jar messages.
func RegisterRoutes(r weave.Registry, auth x.Authenticator, cashCtrl cash.Controller) {
	jars := NewJarBucket()
	r.Handle(&InitializeMsg{}, &InitializeHandler{auth: auth, jars: jars, cash: cashCtrl})
	r.Handle(&TipMsg{}, &TipHandler{auth: auth, jars: jars, cash: cashCtrl})
	r.Handle(&WithdrawMsg{}, &WithdrawHandler{auth: auth, jars: jars, cash: cashCtrl})
	r.Handle(&UpdateConfigurationMsg{}, NewConfigHandler(auth))
}

// NewConfigHandler returns a handler applying configuration patches signed by
// the configuration owner.
func NewConfigHandler(auth x.Authenticator) weave.Handler {
	return gconf.NewUpdateConfigurationHandler(confPkg, func() gconf.OwnedConfig { return &Configuration{} }, auth)
}

// InitializeHandler creates new jars.
type InitializeHandler struct {
	auth x.Authenticator
	jars orm.ModelBucket
	cash cash.Controller
}

var _ weave.Handler = (*InitializeHandler)(nil)

func (h *InitializeHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: initializeCost}, nil
}

func (h *InitializeHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, payer, conf, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if conf.AllocationFee > 0 {
		if err := h.cash.MoveCoins(db, payer, conf.FeeCollector, conf.AllocationFee); err != nil {
			return nil, errors.Wrapf(ErrAllocation, "cannot pay allocation fee: %s", err)
		}
	}

	jar := &Jar{Owner: msg.Owner}
	if err := h.jars.Put(db, msg.JarID, jar); err != nil {
		return nil, errors.Wrap(err, "cannot store jar")
	}

	res := &weave.DeliverResult{Data: msg.JarID}
	res.Emit(&JarInitializedEvent{JarID: msg.JarID, Owner: msg.Owner})
	return res, nil
}

func (h *InitializeHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*InitializeMsg, weave.Address, *Configuration, error) {
	var msg InitializeMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	payer, err := x.AuthorizedAddress(ctx, h.auth, msg.Payer)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "payer")
	}

	switch err := h.jars.Has(db, msg.JarID); {
	case err == nil:
		return nil, nil, nil, errors.Wrap(ErrAllocation, "jar already exists")
	case !errors.ErrNotFound.Is(err):
		return nil, nil, nil, errors.Wrap(err, "cannot check jar")
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, nil, err
	}
	if conf.AllocationFee > 0 {
		balance, err := h.cash.Balance(db, payer)
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "payer balance")
		}
		if balance < conf.AllocationFee {
			return nil, nil, nil, errors.Wrapf(ErrAllocation, "allocation fee %d, payer holds %d", conf.AllocationFee, balance)
		}
	}
	return &msg, payer, conf, nil
}

// TipHandler moves value into jar custody.
type TipHandler struct {
	auth x.Authenticator
	jars orm.ModelBucket
	cash cash.Controller
}

var _ weave.Handler = (*TipHandler)(nil)

func (h *TipHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: tipCost}, nil
}

func (h *TipHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, tipper, jar, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.cash.MoveCoins(db, tipper, JarAddress(msg.JarID), msg.Amount); err != nil {
		return nil, errors.Wrapf(ErrTransferFailed, "tip: %s", err)
	}

	jar.TotalTips += msg.Amount
	if err := h.jars.Put(db, msg.JarID, jar); err != nil {
		return nil, errors.Wrap(err, "cannot store jar")
	}

	res := &weave.DeliverResult{}
	res.Emit(&TippedEvent{JarID: msg.JarID, From: tipper, Amount: msg.Amount})
	return res, nil
}

func (h *TipHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*TipMsg, weave.Address, *Jar, error) {
	var msg TipMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	if msg.Amount == 0 {
		return nil, nil, nil, errors.Wrap(ErrZeroAmount, "tip")
	}
	tipper, err := x.AuthorizedAddress(ctx, h.auth, msg.Tipper)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "tipper")
	}

	var jar Jar
	if err := h.jars.One(db, msg.JarID, &jar); err != nil {
		return nil, nil, nil, errors.Wrap(err, "cannot load jar")
	}
	if jar.TotalTips+msg.Amount < jar.TotalTips {
		return nil, nil, nil, errors.Wrapf(errors.ErrOverflow, "total tips %d + %d", jar.TotalTips, msg.Amount)
	}
	// Custody may hold more than TotalTips, anyone can send to it.
	custody, err := h.cash.Balance(db, JarAddress(msg.JarID))
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "custody balance")
	}
	if custody+msg.Amount < custody {
		return nil, nil, nil, errors.Wrapf(errors.ErrOverflow, "custody %d + %d", custody, msg.Amount)
	}
	return &msg, tipper, &jar, nil
}

// WithdrawHandler drains jar custody into a destination chosen by the owner.
type WithdrawHandler struct {
	auth x.Authenticator
	jars orm.ModelBucket
	cash cash.Controller
}

var _ weave.Handler = (*WithdrawHandler)(nil)

func (h *WithdrawHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{GasAllocated: withdrawCost}, nil
}

func (h *WithdrawHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	msg, owner, amount, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	if err := h.cash.MoveCoins(db, JarAddress(msg.JarID), msg.Destination, amount); err != nil {
		return nil, errors.Wrapf(ErrTransferFailed, "withdraw: %s", err)
	}

	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, amount)
	res := &weave.DeliverResult{Data: data}
	res.Emit(&WithdrawnEvent{
		JarID:       msg.JarID,
		Owner:       owner,
		Destination: msg.Destination,
		Amount:      amount,
	})
	return res, nil
}

func (h *WithdrawHandler) validate(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*WithdrawMsg, weave.Address, uint64, error) {
	var msg WithdrawMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, nil, 0, errors.Wrap(err, "load msg")
	}
	caller, err := x.AuthorizedAddress(ctx, h.auth, msg.Owner)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "owner")
	}

	var jar Jar
	if err := h.jars.One(db, msg.JarID, &jar); err != nil {
		return nil, nil, 0, errors.Wrap(err, "cannot load jar")
	}
	if !jar.Owner.Equals(caller) {
		return nil, nil, 0, errors.Wrap(errors.ErrUnauthorized, "not the jar owner")
	}

	custody := JarAddress(msg.JarID)
	if custody.Equals(msg.Destination) {
		return nil, nil, 0, errors.Wrap(errors.ErrInput, "destination is the jar custody")
	}
	amount, err := h.cash.Balance(db, custody)
	if err != nil {
		return nil, nil, 0, errors.Wrap(err, "custody balance")
	}
	if amount == 0 {
		return nil, nil, 0, errors.Wrap(ErrNothingToWithdraw, "custody is empty")
	}
	return &msg, caller, amount, nil
}

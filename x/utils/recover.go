package utils

import (
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
)

// Recovery turns a panic of the rest of the chain into an ErrPanic error,
// so that a single broken transaction cannot halt the node. Recovered panics
// are logged with the path of the message that caused them.
type Recovery struct{}

var _ weave.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (_ *weave.CheckResult, err error) {
	defer logPanic(ctx, tx, &err)
	defer errors.Recover(&err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (_ *weave.DeliverResult, err error) {
	defer logPanic(ctx, tx, &err)
	defer errors.Recover(&err)
	return next.Deliver(ctx, db, tx)
}

func logPanic(ctx weave.Context, tx weave.Tx, err *error) {
	if !errors.ErrPanic.Is(*err) {
		return
	}
	path := "(missing)"
	if tx != nil {
		path = weave.GetPath(tx)
	}
	weave.GetLogger(ctx).Error("recovered panic", "path", path, "err", *err)
}

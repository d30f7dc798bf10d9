package utils

import (
	"time"

	"github.com/iov-one/tipjar/weave"
)

// Logging writes one log entry per processed transaction with the message
// path, the processing time and the error if any.
//
// Failures are logged as errors. A successful delivery is logged as info,
// a successful check only as debug, because every transaction is checked
// by each node that receives it.
type Logging struct{}

var _ weave.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logResult(ctx, start, tx, msg, err, false)
	return res, err
}

func (Logging) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	var msg string
	if err == nil {
		msg = res.Log
	}
	logResult(ctx, start, tx, msg, err, true)
	return res, err
}

func logResult(ctx weave.Context, start time.Time, tx weave.Tx, msg string, err error, deliver bool) {
	logger := weave.GetLogger(ctx).With(
		"path", weave.GetPath(tx),
		"duration", time.Since(start)/time.Microsecond,
	)
	if height, ok := weave.GetHeight(ctx); ok {
		logger = logger.With("height", height)
	}

	// An entry is written even for an empty message, the key values carry
	// the information.
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case deliver:
		logger.Info(msg)
	default:
		logger.Debug(msg)
	}
}

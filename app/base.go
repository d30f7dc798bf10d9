package app

import (
	"context"

	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/eventsink"
	"github.com/iov-one/tipjar/weave"
	abci "github.com/tendermint/tendermint/abci/types"
)

// EventSink takes the events of a block before the block is committed. A
// failing sink stops the node, so that no committed event is ever lost.
type EventSink interface {
	Append(ctx context.Context, records []eventsink.Record) error
}

// BaseApp completes StoreApp with transaction processing. Transactions are
// decoded and passed to a single handler, usually a decorated router.
type BaseApp struct {
	*StoreApp
	decoder weave.TxDecoder
	handler weave.Handler
	debug   bool

	sink EventSink
	// block collects the events delivered in the current block.
	block   []eventsink.Record
	txIndex int
}

var _ abci.Application = (*BaseApp)(nil)

// NewBaseApp returns an application without an event sink. When debug is
// set, error results carry the full stack trace.
func NewBaseApp(store *StoreApp, decoder weave.TxDecoder, handler weave.Handler, debug bool) *BaseApp {
	return &BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// WithEventSink sets the sink receiving events of every committed block.
func (b *BaseApp) WithEventSink(sink EventSink) *BaseApp {
	b.sink = sink
	return b
}

// DeliverTx executes a transaction of the current block. Every transaction
// takes the next index, a failed one included.
func (b *BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	index := b.txIndex
	b.txIndex++

	tx, err := b.decode(txBytes)
	if err != nil {
		return weave.DeliverTxError(err, b.debug)
	}
	ctx := weave.WithTxIndex(b.BlockContext(), index)
	ctx = weave.WithLogInfo(ctx, "call", "deliver_tx", "path", weave.GetPath(tx))

	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	if err == nil && b.sink != nil {
		b.record(index, res.Events)
	}
	return weave.DeliverOrError(res, err, b.debug)
}

// record keeps events of a delivered transaction until commit. An event
// that cannot be encoded is logged and dropped, the transaction itself is
// not affected.
func (b *BaseApp) record(txIndex int, events []weave.Event) {
	height, _ := weave.GetHeight(b.BlockContext())
	for i, e := range events {
		r, err := eventsink.NewRecord(b.GetChainID(), height, txIndex, i, e)
		if err != nil {
			b.Logger().Error("cannot record event", "kind", e.Kind(), "height", height, "tx", txIndex, "err", err)
			continue
		}
		b.block = append(b.block, r)
	}
}

// CheckTx validates a mempool transaction against the check state.
func (b *BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.decode(txBytes)
	if err != nil {
		return weave.CheckTxError(err, b.debug)
	}
	ctx := weave.WithLogInfo(b.BlockContext(), "call", "check_tx", "path", weave.GetPath(tx))
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return weave.CheckOrError(res, err, b.debug)
}

func (b *BaseApp) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	b.block = nil
	b.txIndex = 0
	return b.StoreApp.BeginBlock(req)
}

// Commit hands the events of the block to the sink, then commits the state.
// A crash in between replays the block, the sink deduplicates by record id.
func (b *BaseApp) Commit() abci.ResponseCommit {
	if b.sink != nil && len(b.block) != 0 {
		if err := b.sink.Append(context.Background(), b.block); err != nil {
			panic(errors.Wrap(err, "store block events"))
		}
	}
	b.block = nil
	return b.StoreApp.Commit()
}

// decode parses a transaction. A decoder panic is returned as ErrPanic.
func (b *BaseApp) decode(txBytes []byte) (tx weave.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}

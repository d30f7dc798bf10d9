package weave

import (
	"github.com/iov-one/tipjar/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// Event is a notification produced by a successful state transition, for
// example "tipjar.tipped". Events of a block are handed to the event sink on
// commit. Nothing is recorded for a failed transaction.
type Event interface {
	Marshaller
	Kind() string
	// Attributes are exposed as transaction tags next to the "event" tag
	// holding Kind.
	Attributes() []common.KVPair
}

// DeliverResult is the outcome of a successfully delivered transaction.
type DeliverResult struct {
	// Data is returned to the client, for example the id of a created jar.
	Data    []byte
	Log     string
	Tags    []common.KVPair
	Events  []Event
	GasUsed int64
}

// Emit records e and tags the transaction with its kind and attributes.
func (d *DeliverResult) Emit(e Event) {
	d.Events = append(d.Events, e)
	d.Tags = append(append(d.Tags, common.KVPair{Key: []byte("event"), Value: []byte(e.Kind())}), e.Attributes()...)
}

// ToABCI drops the events. Clients see only their tags.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{Data: d.Data, Log: d.Log, Tags: d.Tags, GasUsed: d.GasUsed}
}

// CheckResult is the outcome of a transaction accepted to the mempool.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is the most work the transaction may take when delivered.
	GasAllocated int64
}

// NewCheck returns a CheckResult allocating given gas.
func NewCheck(gasAllocated int64, log string) *CheckResult {
	return &CheckResult{GasAllocated: gasAllocated, Log: log}
}

func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{Data: c.Data, Log: c.Log, GasWanted: c.GasAllocated}
}

// DeliverOrError builds the DeliverTx response of a handler call.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err == nil {
		return result.ToABCI()
	}
	return DeliverTxError(err, debug)
}

// CheckOrError builds the CheckTx response of a handler call.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err == nil {
		return result.ToABCI()
	}
	return CheckTxError(err, debug)
}

// DeliverTxError converts err into a failed DeliverTx response. Internal
// details are part of the log only in debug mode.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := failure("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError converts err into a failed CheckTx response.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := failure("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func failure(call string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, "cannot " + call + " tx: " + log
}

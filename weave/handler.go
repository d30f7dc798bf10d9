package weave

import (
	"encoding/json"

	"github.com/iov-one/tipjar/errors"
)

// Handler processes messages of one route, for example "tipjar/tip".
type Handler interface {
	Checker
	Deliverer
}

// Checker validates a transaction for the mempool. Check must not modify
// the state a later Deliver reads, except through the check store.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction of a block.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around every handler call. Signature verification,
// logging and panic recovery are decorators.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds handlers to message routes.
type Registry interface {
	Handle(m Msg, h Handler)
}

// Options is the genesis app_state, one raw JSON value per extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the value under key into obj. A missing key leaves obj
// untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot decode %q options: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers runs inits in order and stops at the first failure.
func ChainInitializers(inits ...Initializer) Initializer {
	return initializers(inits)
}

type initializers []Initializer

func (all initializers) FromGenesis(opts Options, kv KVStore) error {
	for i, init := range all {
		if err := init.FromGenesis(opts, kv); err != nil {
			return errors.Wrapf(err, "initializer %d", i)
		}
	}
	return nil
}

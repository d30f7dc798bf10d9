package app

import (
	"reflect"

	"github.com/iov-one/tipjar/weave"
)

// Decorators is an ordered list of decorators waiting for the handler they
// wrap. The first decorator is the outermost one.
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		utils.NewSavepoint().OnCheck(),
//		sigs.NewDecorator(),
//		utils.NewSavepoint().OnDeliver(),
//		utils.NewActionTagger(),
//	).WithHandler(router)
type Decorators struct {
	chain []weave.Decorator
}

// ChainDecorators returns the given decorators in call order. Nil decorators
// are skipped, so optional ones can be passed unconditionally.
func ChainDecorators(chain ...weave.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain returns a copy with given decorators appended.
func (d Decorators) Chain(chain ...weave.Decorator) Decorators {
	next := make([]weave.Decorator, 0, len(d.chain)+len(chain))
	next = append(next, d.chain...)
	for _, dc := range chain {
		if !isNilDecorator(dc) {
			next = append(next, dc)
		}
	}
	return Decorators{chain: next}
}

func isNilDecorator(d weave.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler returns a handler running every decorator in order before h.
func (d Decorators) WithHandler(h weave.Handler) weave.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{decorator: d.chain[i], next: h}
	}
	return h
}

// step binds a decorator to the handler it wraps.
type step struct {
	decorator weave.Decorator
	next      weave.Handler
}

var _ weave.Handler = step{}

func (s step) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	return s.decorator.Check(ctx, db, tx, s.next)
}

func (s step) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	return s.decorator.Deliver(ctx, db, tx, s.next)
}

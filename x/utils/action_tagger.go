package utils

import (
	"strings"

	"github.com/iov-one/tipjar/weave"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	// ActionKey tags a delivered transaction with the path of its
	// message, for example "tipjar/tip".
	ActionKey = "action"
	// ModuleKey tags a delivered transaction with the extension that
	// processed it, for example "tipjar".
	ModuleKey = "module"
)

// ActionTagger tags every successfully delivered transaction, so that
// clients can search or subscribe to a kind of operation.
//
// It belongs at the end of the ChainDecorators call, so that only
// transactions that were fully processed are tagged.
type ActionTagger struct{}

var _ weave.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

func (ActionTagger) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	// A transaction without a message is rejected before processing.
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	path := msg.Path()
	res.Tags = append(res.Tags,
		common.KVPair{Key: []byte(ActionKey), Value: []byte(path)},
		common.KVPair{Key: []byte(ModuleKey), Value: []byte(module(path))},
	)
	return res, nil
}

// module returns the extension name part of a message path.
func module(path string) string {
	if i := strings.IndexByte(path, '/'); i > 0 {
		return path[:i]
	}
	return path
}

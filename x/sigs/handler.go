package sigs

import (
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/orm"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/x"
)

// RegisterRoutes registers the nonce management handler.
func RegisterRoutes(r weave.Registry, auth x.Authenticator) {
	r.Handle(&BumpSequenceMsg{}, bumpSequenceHandler{users: NewBucket(), auth: auth})
}

// bumpSequenceHandler moves the nonce of the main signer forward.
type bumpSequenceHandler struct {
	users orm.ModelBucket
	auth  x.Authenticator
}

func (h bumpSequenceHandler) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	if _, err := h.next(ctx, db, tx); err != nil {
		return nil, err
	}
	return &weave.CheckResult{}, nil
}

func (h bumpSequenceHandler) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	user, err := h.next(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if err := h.users.Put(db, user.Pubkey.Address(), user); err != nil {
		return nil, errors.Wrap(err, "save nonce")
	}
	return &weave.DeliverResult{}, nil
}

// next returns the signer nonce record as it must be after this message.
// The decorator already consumed one nonce for the transaction itself, so
// the record is moved by the increment minus one.
func (h bumpSequenceHandler) next(ctx weave.Context, db weave.KVStore, tx weave.Tx) (*UserData, error) {
	var msg BumpSequenceMsg
	if err := weave.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}

	var user UserData
	if err := h.users.One(db, signer.Address(), &user); err != nil {
		return nil, errors.Wrap(err, "nonce")
	}
	seq := user.Sequence + int64(msg.Increment) - 1
	if seq < user.Sequence {
		return nil, errors.Wrap(errors.ErrOverflow, "nonce")
	}
	user.Sequence = seq
	return &user, nil
}

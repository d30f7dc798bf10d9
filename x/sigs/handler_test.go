package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/tipjar/crypto"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/store"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/weavetest"
	"github.com/iov-one/tipjar/weavetest/assert"
)

func TestBumpSequence(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	cases := map[string]struct {
		initSeq        int64
		skipInit       bool
		signer         weave.Condition
		msg            weave.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
		wantSeq        int64
	}{
		"increment by one is applied by the decorator": {
			initSeq: 5,
			signer:  pub.Condition(),
			msg:     &BumpSequenceMsg{Increment: 1},
			wantSeq: 5,
		},
		"increment by many": {
			initSeq: 5,
			signer:  pub.Condition(),
			msg:     &BumpSequenceMsg{Increment: 100},
			wantSeq: 104,
		},
		"increment too big": {
			initSeq:        5,
			signer:         pub.Condition(),
			msg:            &BumpSequenceMsg{Increment: maxSequenceIncrement + 1},
			wantCheckErr:   errors.ErrMsg,
			wantDeliverErr: errors.ErrMsg,
			wantSeq:        5,
		},
		"zero increment": {
			initSeq:        5,
			signer:         pub.Condition(),
			msg:            &BumpSequenceMsg{},
			wantCheckErr:   errors.ErrMsg,
			wantDeliverErr: errors.ErrMsg,
			wantSeq:        5,
		},
		"unknown user": {
			skipInit:       true,
			signer:         pub.Condition(),
			msg:            &BumpSequenceMsg{Increment: 2},
			wantCheckErr:   errors.ErrNotFound,
			wantDeliverErr: errors.ErrNotFound,
		},
		"no signer": {
			initSeq:        5,
			msg:            &BumpSequenceMsg{Increment: 2},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
			wantSeq:        5,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			b := NewBucket()
			if !tc.skipInit {
				assert.Nil(t, b.Put(db, pub.Address(), &UserData{Pubkey: pub, Sequence: tc.initSeq}))
			}

			rt := &registry{}
			RegisterRoutes(rt, &weavetest.Auth{Signer: tc.signer})
			h := rt.handler

			tx := &weavetest.Tx{Msg: tc.msg}
			cache := db.CacheWrap()
			_, err := h.Check(context.Background(), cache, tx)
			assert.IsErr(t, tc.wantCheckErr, err)
			cache.Discard()

			_, err = h.Deliver(context.Background(), db, tx)
			assert.IsErr(t, tc.wantDeliverErr, err)

			if tc.skipInit {
				return
			}
			nonce, err := NextNonce(db, pub.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantSeq, nonce)
		})
	}
}

// registry captures the single handler registered by this package.
type registry struct {
	handler weave.Handler
}

func (r *registry) Handle(m weave.Msg, h weave.Handler) {
	r.handler = h
}

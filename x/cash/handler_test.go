package cash

import (
	"context"
	"testing"

	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/store"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/weavetest"
	"github.com/iov-one/tipjar/weavetest/assert"
)

func TestSendHandler(t *testing.T) {
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()

	cases := map[string]struct {
		signer      weave.Condition
		msg         weave.Msg
		wantCheck   *errors.Error
		wantDeliver *errors.Error
		wantAlice   uint64
		wantBob     uint64
	}{
		"source defaults to the signer": {
			signer:    alice,
			msg:       &SendMsg{Destination: bob.Address(), Amount: 40},
			wantAlice: 60,
			wantBob:   40,
		},
		"explicit source": {
			signer:    alice,
			msg:       &SendMsg{Source: alice.Address(), Destination: bob.Address(), Amount: 100},
			wantAlice: 0,
			wantBob:   100,
		},
		"source did not sign": {
			signer:      bob,
			msg:         &SendMsg{Source: alice.Address(), Destination: bob.Address(), Amount: 10},
			wantCheck:   errors.ErrUnauthorized,
			wantDeliver: errors.ErrUnauthorized,
			wantAlice:   100,
		},
		"insufficient funds": {
			signer:      alice,
			msg:         &SendMsg{Destination: bob.Address(), Amount: 101},
			wantCheck:   ErrInsufficientFunds,
			wantDeliver: ErrInsufficientFunds,
			wantAlice:   100,
		},
		"zero amount": {
			signer:      alice,
			msg:         &SendMsg{Destination: bob.Address()},
			wantCheck:   errors.ErrAmount,
			wantDeliver: errors.ErrAmount,
			wantAlice:   100,
		},
		"missing destination": {
			signer:      alice,
			msg:         &SendMsg{Amount: 1},
			wantCheck:   errors.ErrEmpty,
			wantDeliver: errors.ErrEmpty,
			wantAlice:   100,
		},
		"wrong message": {
			signer:      alice,
			msg:         &weavetest.Msg{RoutePath: "cash/send"},
			wantCheck:   errors.ErrType,
			wantDeliver: errors.ErrType,
			wantAlice:   100,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController(NewBucket())
			assert.Nil(t, ctrl.CoinMint(db, alice.Address(), 100))

			h := NewSendHandler(&weavetest.Auth{Signer: tc.signer}, ctrl)
			tx := &weavetest.Tx{Msg: tc.msg}

			cache := db.CacheWrap()
			_, err := h.Check(context.Background(), cache, tx)
			assert.IsErr(t, tc.wantCheck, err)
			cache.Discard()

			_, err = h.Deliver(context.Background(), db, tx)
			assert.IsErr(t, tc.wantDeliver, err)

			got, err := ctrl.Balance(db, alice.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantAlice, got)
			got, err = ctrl.Balance(db, bob.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantBob, got)
		})
	}
}

func TestSendMsgSerialization(t *testing.T) {
	msg := SendMsg{
		Source:      weavetest.NewCondition().Address(),
		Destination: weavetest.NewCondition().Address(),
		Amount:      12345,
		Memo:        "thanks",
	}
	raw, err := msg.Marshal()
	assert.Nil(t, err)
	var got SendMsg
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, msg, got)
}

func TestWalletQuery(t *testing.T) {
	db := store.MemStore()
	addr := weavetest.NewCondition().Address()
	assert.Nil(t, NewController(NewBucket()).CoinMint(db, addr, 77))

	qr := weave.NewQueryRouter()
	RegisterQuery(qr)
	models, err := qr.Handler("/wallets").Query(db, weave.KeyQueryMod, addr)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))

	var w Wallet
	assert.Nil(t, w.Unmarshal(models[0].Value))
	assert.Equal(t, uint64(77), w.Balance)
}

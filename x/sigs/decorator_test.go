package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/tipjar/crypto"
	"github.com/iov-one/tipjar/store"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecorator(t *testing.T) {
	const chainID = "deco-rate"
	priv := crypto.GenPrivKeyEd25519()
	signer := priv.PublicKey().Condition()

	signed := func(seqs ...int64) *stdTx {
		tx := newStdTx([]byte("art"))
		for _, seq := range seqs {
			sig, err := SignTx(priv, tx, chainID, seq)
			require.NoError(t, err)
			tx.Signatures = append(tx.Signatures, sig)
		}
		return tx
	}

	cases := map[string]struct {
		txs         []weave.Tx
		wantErr     []bool
		wantSigners []weave.Condition
	}{
		"single signature": {
			txs:         []weave.Tx{signed(0)},
			wantErr:     []bool{false},
			wantSigners: []weave.Condition{signer},
		},
		"signed tx without signatures": {
			txs:     []weave.Tx{signed()},
			wantErr: []bool{true},
		},
		"replay is refused": {
			txs:         []weave.Tx{signed(0), signed(0)},
			wantErr:     []bool{false, true},
			wantSigners: []weave.Condition{signer},
		},
		"nonces are consumed in order": {
			txs:         []weave.Tx{signed(1), signed(0), signed(1)},
			wantErr:     []bool{true, false, false},
			wantSigners: []weave.Condition{signer},
		},
		"unsigned tx type passes without signers": {
			txs:     []weave.Tx{&weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/sigs"}}},
			wantErr: []bool{false},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := weave.WithChainID(context.Background(), chainID)
			db := store.MemStore()
			check := db.CacheWrap()
			d := NewDecorator()

			for i, tx := range tc.txs {
				h := new(sigCheckHandler)
				_, err := d.Check(ctx, check, tx, h)
				assert.Equal(t, tc.wantErr[i], err != nil, "check %d: %v", i, err)

				h = new(sigCheckHandler)
				_, err = d.Deliver(ctx, db, tx, h)
				assert.Equal(t, tc.wantErr[i], err != nil, "deliver %d: %v", i, err)
				if err == nil && i == len(tc.txs)-1 {
					assert.Equal(t, tc.wantSigners, h.Signers)
				}
			}
		})
	}
}

func TestDecoratorChargesGas(t *testing.T) {
	kv := store.MemStore()
	chainID := "gas-chain"
	ctx := weave.WithChainID(context.Background(), chainID)

	first, second := crypto.GenPrivKeyEd25519(), crypto.GenPrivKeyEd25519()
	tx := newStdTx([]byte("gas"))
	for _, priv := range []*crypto.PrivateKey{first, second} {
		sig, err := SignTx(priv, tx, chainID, 0)
		require.NoError(t, err)
		tx.Signatures = append(tx.Signatures, sig)
	}

	res, err := NewDecorator().Check(ctx, kv, tx, new(sigCheckHandler))
	require.NoError(t, err)
	assert.Equal(t, int64(2*signatureVerifyCost), res.GasAllocated)
}

package app

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	tjapp "github.com/iov-one/tipjar/app"
	"github.com/iov-one/tipjar/crypto"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/eventsink"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/weavetest"
	"github.com/iov-one/tipjar/x/cash"
	"github.com/iov-one/tipjar/x/sigs"
	"github.com/iov-one/tipjar/x/tipjar"
)

const chainID = "tipjar-test"

type memSink struct {
	records []eventsink.Record
}

func (s *memSink) Append(ctx context.Context, records []eventsink.Record) error {
	s.records = append(s.records, records...)
	return nil
}

// signer keeps track of the nonce of a single key.
type signer struct {
	key *crypto.PrivateKey
	seq int64
}

func newSigner() *signer {
	return &signer{key: weavetest.NewKey()}
}

func (s *signer) Address() weave.Address {
	return s.key.PublicKey().Address()
}

func (s *signer) sign(t testing.TB, msg weave.Msg) []byte {
	t.Helper()
	tx := &Tx{Msg: msg}
	sig, err := sigs.SignTx(s.key, tx, chainID, s.seq)
	require.NoError(t, err)
	s.seq++
	tx.Signatures = []*sigs.StdSignature{sig}
	raw, err := tx.Marshal()
	require.NoError(t, err)
	return raw
}

type testChain struct {
	t      testing.TB
	app    abci.Application
	height int64
}

func (c *testChain) block(txs ...[]byte) []abci.ResponseDeliverTx {
	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{Header: abci.Header{
		ChainID: chainID,
		Height:  c.height,
		Time:    time.Now(),
	}})
	var res []abci.ResponseDeliverTx
	for _, tx := range txs {
		res = append(res, c.app.DeliverTx(tx))
	}
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
	return res
}

func (c *testChain) balance(addr weave.Address) uint64 {
	c.t.Helper()
	res := c.app.Query(abci.RequestQuery{Path: "/wallets", Data: addr})
	require.Equal(c.t, uint32(0), res.Code, res.Log)
	var w cash.Wallet
	require.NoError(c.t, tjapp.UnmarshalOneResult(res.Value, &w))
	return w.Balance
}

func (c *testChain) jar(id []byte) *tipjar.Jar {
	c.t.Helper()
	res := c.app.Query(abci.RequestQuery{Path: "/jars", Data: id})
	require.Equal(c.t, uint32(0), res.Code, res.Log)
	var j tipjar.Jar
	require.NoError(c.t, tjapp.UnmarshalOneResult(res.Value, &j))
	return &j
}

func newTestChain(t testing.TB, sink tjapp.EventSink, appState string) *testChain {
	t.Helper()
	gen := NewAppGenerator(sink)
	application, err := gen("", log.NewNopLogger(), false)
	require.NoError(t, err)
	application.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: []byte(appState)})
	return &testChain{t: t, app: application}
}

func genesisJSON(t testing.TB, accounts map[*signer]uint64) string {
	t.Helper()
	var state genesis
	for s, amount := range accounts {
		state.Cash = append(state.Cash, cash.GenesisAccount{Address: s.Address(), Balance: amount})
	}
	raw, err := json.Marshal(state)
	require.NoError(t, err)
	return string(raw)
}

func TestTipJarScenario(t *testing.T) {
	owner, alice, bob, stranger := newSigner(), newSigner(), newSigner(), newSigner()
	dest := weavetest.NewCondition().Address()
	jarID := []byte("jar-00001")

	sink := &memSink{}
	chain := newTestChain(t, sink, genesisJSON(t, map[*signer]uint64{
		owner:    10,
		alice:    1000,
		bob:      1000,
		stranger: 10,
	}))

	res := chain.block(
		owner.sign(t, &tipjar.InitializeMsg{JarID: jarID, Owner: owner.Address()}),
		alice.sign(t, &tipjar.TipMsg{JarID: jarID, Amount: 100}),
		bob.sign(t, &tipjar.TipMsg{JarID: jarID, Amount: 50}),
	)
	for i, r := range res {
		require.Equal(t, uint32(0), r.Code, "tx %d: %s", i, r.Log)
	}

	assert.Equal(t, uint64(150), chain.jar(jarID).TotalTips)
	assert.Equal(t, uint64(150), chain.balance(tipjar.JarAddress(jarID)))
	assert.Equal(t, uint64(900), chain.balance(alice.Address()))
	assert.Equal(t, uint64(950), chain.balance(bob.Address()))

	res = chain.block(
		owner.sign(t, &tipjar.WithdrawMsg{JarID: jarID, Destination: dest}),
		owner.sign(t, &tipjar.WithdrawMsg{JarID: jarID, Destination: dest}),
		stranger.sign(t, &tipjar.WithdrawMsg{JarID: jarID, Destination: stranger.Address()}),
	)
	require.Equal(t, uint32(0), res[0].Code, res[0].Log)
	assert.Equal(t, uint64(150), binary.BigEndian.Uint64(res[0].Data))
	assert.Equal(t, tipjar.ErrNothingToWithdraw.ABCICode(), res[1].Code)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res[2].Code)

	assert.Equal(t, uint64(150), chain.balance(dest))
	assert.Equal(t, uint64(0), chain.balance(tipjar.JarAddress(jarID)))
	assert.Equal(t, uint64(150), chain.jar(jarID).TotalTips)

	// a tx with a reused nonce is rejected by the signature check
	replay := &Tx{Msg: &tipjar.TipMsg{JarID: jarID, Amount: 1}}
	sig, err := sigs.SignTx(alice.key, replay, chainID, 0)
	require.NoError(t, err)
	replay.Signatures = []*sigs.StdSignature{sig}
	raw, err := replay.Marshal()
	require.NoError(t, err)
	res = chain.block(raw)
	assert.Equal(t, sigs.ErrInvalidSequence.ABCICode(), res[0].Code)

	kinds := make([]string, 0, len(sink.records))
	for _, r := range sink.records {
		kinds = append(kinds, r.Kind)
		assert.Equal(t, chainID, r.ChainID)
		assert.Equal(t, jarID, r.JarID)
	}
	assert.Equal(t, []string{
		tipjar.KindJarInitialized,
		tipjar.KindTipped,
		tipjar.KindTipped,
		tipjar.KindWithdrawn,
	}, kinds)
	assert.Equal(t, int64(2), sink.records[3].Height)
	assert.Equal(t, 0, sink.records[3].TxIndex)
}

func TestAllocationFeeFromGenesis(t *testing.T) {
	payer, collector := newSigner(), weavetest.NewCondition().Address()

	state, err := GenInitOptions([]string{
		"-collector", collector.String(),
		"-fee", "0.000000003",
		payer.Address().String() + ":0.000000100",
	})
	require.NoError(t, err)

	chain := newTestChain(t, nil, string(state))
	res := chain.block(
		payer.sign(t, &tipjar.InitializeMsg{JarID: []byte("jar-00001"), Owner: payer.Address()}),
	)
	require.Equal(t, uint32(0), res[0].Code, res[0].Log)
	assert.Equal(t, uint64(97), chain.balance(payer.Address()))
	assert.Equal(t, uint64(3), chain.balance(collector))
}

func TestUnsignedTransactionRejected(t *testing.T) {
	chain := newTestChain(t, nil, `{}`)
	raw, err := (&Tx{Msg: &tipjar.TipMsg{JarID: []byte("jar-00001"), Amount: 1}}).Marshal()
	require.NoError(t, err)

	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), chain.app.CheckTx(raw).Code)
	res := chain.block(raw)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res[0].Code)
}

func TestCheckBeforeFirstBlock(t *testing.T) {
	payer := newSigner()
	chain := newTestChain(t, nil, genesisJSON(t, map[*signer]uint64{payer: 10}))

	res := chain.app.CheckTx(payer.sign(t, &tipjar.InitializeMsg{JarID: []byte("jar-00001"), Owner: payer.Address()}))
	require.Equal(t, uint32(0), res.Code, res.Log)

	stranger := newSigner()
	res = chain.app.CheckTx(stranger.sign(t, &tipjar.TipMsg{JarID: []byte("jar-00404"), Tipper: stranger.Address(), Amount: 1}))
	assert.NotEqual(t, errors.ErrPanic.ABCICode(), res.Code, res.Log)
	assert.NotEqual(t, uint32(0), res.Code)
}

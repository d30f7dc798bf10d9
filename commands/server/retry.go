package server

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	"github.com/iov-one/tipjar/errors"
	iavlstore "github.com/iov-one/tipjar/store/iavl"
	"github.com/iov-one/tipjar/weave"
	"github.com/tendermint/iavl"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/types"
)

const (
	flagUntilError = "error"
	flagMaxTries   = "max"
)

// InlineAppGenerator builds an application on top of an already opened
// store. Applications built for a replay must not forward events.
type InlineAppGenerator func(weave.CommitKVStore, log.Logger, bool) abci.Application

type retryArgs struct {
	dbPath     string
	blockPath  string
	debug      bool
	untilError bool
	maxTries   int
}

func parseRetryArgs(args []string) (retryArgs, error) {
	if len(args) < 2 {
		return retryArgs{}, errors.Wrap(errors.ErrInput,
			"usage: retry <path to abci.db> <path to block.json> [-debug] [-error] [-max=N]")
	}
	a := retryArgs{dbPath: args[0], blockPath: args[1]}
	fs := flag.NewFlagSet("retry", flag.ContinueOnError)
	fs.BoolVar(&a.debug, flagDebug, false, "return stack traces in results")
	fs.BoolVar(&a.untilError, flagUntilError, false, "repeat until the recomputed app hash differs")
	fs.IntVar(&a.maxTries, flagMaxTries, 10, "repetition limit of -error")
	if err := fs.Parse(args[2:]); err != nil {
		return a, errors.Wrap(errors.ErrInput, err.Error())
	}
	return a, nil
}

// RetryCmd replays the last block of an application state to look for non
// determinism. The state must be at the height of the block, read from a
// getblock dump. The state is rolled back one version, the block is
// executed again and the recomputed app hash printed. With -error the
// replay repeats until the hash differs, at most -max times.
func RetryCmd(makeApp InlineAppGenerator, logger log.Logger, args []string) error {
	a, err := parseRetryArgs(args)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "--> Loading Block")
	raw, err := os.ReadFile(a.blockPath)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "read block: %s", err)
	}
	var block *types.Block
	if err := cdc.UnmarshalJSON(raw, &block); err != nil {
		return errors.Wrapf(errors.ErrInput, "decode block: %s", err)
	}

	fmt.Fprintln(stdout, "--> Loading Database")
	tree, err := loadTree(a.dbPath)
	if err != nil {
		return err
	}
	if v := tree.Version(); v != block.Header.Height {
		return errors.Wrapf(errors.ErrState, "block height %d, state version %d", block.Header.Height, v)
	}

	r := replay{
		tree:  tree,
		block: block,
		build: func(kv weave.CommitKVStore) abci.Application { return makeApp(kv, logger, a.debug) },
	}
	tries := 1
	if a.untilError {
		tries += a.maxTries
	}
	fmt.Fprintf(stdout, "Original Height: %d\n", block.Header.Height)
	fmt.Fprintf(stdout, "Original Hash: %X\n", tree.Hash())
	for ; tries > 0; tries-- {
		same, err := r.run()
		if err != nil || !same {
			return err
		}
	}
	return nil
}

// loadTree opens the latest version of the iavl state kept in dir.
func loadTree(dir string) (*iavl.MutableTree, error) {
	db, err := openDb(dir)
	if err != nil {
		return nil, err
	}
	tree := iavl.NewMutableTree(db, iavlstore.DefaultCacheSize)
	v, err := tree.LoadVersion(0)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if v == 0 {
		return nil, errors.Wrap(errors.ErrState, "iavl tree is empty")
	}
	return tree, nil
}

// replay executes a block on top of the state a version before it.
type replay struct {
	tree  *iavl.MutableTree
	block *types.Block
	build func(weave.CommitKVStore) abci.Application
}

// run reports whether the replay results in the original app hash.
func (r replay) run() (bool, error) {
	want := r.tree.Hash()
	height := r.block.Header.Height

	fmt.Fprintf(stdout, "Rollback to height: %d\n", height-1)
	if _, err := r.tree.LoadVersionForOverwriting(height - 1); err != nil {
		return false, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	app := r.build(iavlstore.NewCommitStoreFromTree(r.tree))

	fmt.Fprintln(stdout, "---> Begin Block")
	app.BeginBlock(abci.RequestBeginBlock{Hash: r.block.Header.Hash(), Header: toAbciHeader(r.block.Header)})
	for i, tx := range r.block.Txs {
		res := app.DeliverTx(tx)
		fmt.Fprintf(stdout, "---> Deliver Tx %d: code=%d %s\n", i, res.Code, res.Log)
	}
	fmt.Fprintln(stdout, "---> End Block")
	app.EndBlock(abci.RequestEndBlock{Height: height})
	got := app.Commit().Data
	fmt.Fprintf(stdout, "Recomputed Hash: %X\n", got)
	return bytes.Equal(want, got), nil
}

// toAbciHeader converts a block header into the form BeginBlock expects.
func toAbciHeader(h types.Header) abci.Header {
	return abci.Header{
		Version:  abci.Version{Block: uint64(h.Version.Block), App: uint64(h.Version.App)},
		ChainID:  h.ChainID,
		Height:   h.Height,
		Time:     h.Time,
		NumTxs:   h.NumTxs,
		TotalTxs: h.TotalTxs,
		LastBlockId: abci.BlockID{
			Hash: h.LastBlockID.Hash,
			PartsHeader: abci.PartSetHeader{
				Total: int32(h.LastBlockID.PartsHeader.Total),
				Hash:  h.LastBlockID.PartsHeader.Hash,
			},
		},
		LastCommitHash:     h.LastCommitHash,
		DataHash:           h.DataHash,
		ValidatorsHash:     h.ValidatorsHash,
		NextValidatorsHash: h.NextValidatorsHash,
		ConsensusHash:      h.ConsensusHash,
		AppHash:            h.AppHash,
		LastResultsHash:    h.LastResultsHash,
		EvidenceHash:       h.EvidenceHash,
		ProposerAddress:    h.ProposerAddress,
	}
}

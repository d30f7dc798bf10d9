package server

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/tipjar/errors"
	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/blockchain"
	dbm "github.com/tendermint/tendermint/libs/db"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	"github.com/tendermint/tendermint/types"
)

const flagHeight = "height"

// Blocks are written and read in the tendermint amino JSON format, so that
// a block dumped by getblock can be fed to retry.
var cdc = amino.NewCodec()

func init() {
	ctypes.RegisterAmino(cdc)
}

// stdout is where the operator commands print their output.
var stdout io.Writer = os.Stdout

func parseGetBlockArgs(args []string) (string, int64, error) {
	if len(args) == 0 {
		return "", 0, errors.Wrap(errors.ErrInput, "usage: getblock <path to blockstore.db> [-height=H]")
	}
	fs := flag.NewFlagSet("getblock", flag.ContinueOnError)
	height := fs.Int64(flagHeight, 0, "height of the block to extract, latest when zero")
	if err := fs.Parse(args[1:]); err != nil {
		return "", 0, errors.Wrap(errors.ErrInput, err.Error())
	}
	return args[0], *height, nil
}

// GetBlockCmd prints a block of a tendermint blockstore.db as JSON. The
// latest block is printed unless -height is given.
func GetBlockCmd(args []string) error {
	path, height, err := parseGetBlockArgs(args)
	if err != nil {
		return err
	}
	db, err := openDb(path)
	if err != nil {
		return err
	}
	defer db.Close()

	block, err := loadBlock(blockchain.NewBlockStore(db), height)
	if err != nil {
		return err
	}
	raw, err := cdc.MarshalJSONIndent(block, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "serialize block: %s", err)
	}
	_, err = fmt.Fprintln(stdout, string(raw))
	return err
}

func loadBlock(bs *blockchain.BlockStore, height int64) (*types.Block, error) {
	if height == 0 {
		height = bs.Height()
	}
	block := bs.LoadBlock(height)
	if block == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "block at height %d", height)
	}
	return block, nil
}

// openDb opens the goleveldb database kept in given directory. Tendermint
// names these directories <name>.db.
func openDb(dir string) (dbm.DB, error) {
	dir = filepath.Clean(dir)
	name := filepath.Base(dir)
	if !strings.HasSuffix(name, ".db") {
		return nil, errors.Wrapf(errors.ErrInput, "%s is not a .db directory", dir)
	}
	db, err := dbm.NewGoLevelDB(strings.TrimSuffix(name, ".db"), filepath.Dir(dir))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %s: %s", dir, err)
	}
	return db, nil
}

package server

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/types"

	"github.com/iov-one/tipjar/errors"
)

func TestParseGetBlockArgs(t *testing.T) {
	path, height, err := parseGetBlockArgs([]string{"data/blockstore.db", "-height", "17"})
	require.NoError(t, err)
	assert.Equal(t, "data/blockstore.db", path)
	assert.Equal(t, int64(17), height)

	_, height, err = parseGetBlockArgs([]string{"data/blockstore.db"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), height)

	_, _, err = parseGetBlockArgs(nil)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestOpenDb(t *testing.T) {
	dir := t.TempDir()

	db, err := openDb(filepath.Join(dir, "abci.db") + "/")
	require.NoError(t, err)
	db.Close()

	_, err = openDb(filepath.Join(dir, "abci"))
	assert.True(t, errors.ErrInput.Is(err))
}

func TestParseRetryArgs(t *testing.T) {
	got, err := parseRetryArgs([]string{"abci.db", "block.json", "-error", "-max", "3"})
	require.NoError(t, err)
	assert.Equal(t, retryArgs{
		dbPath:     "abci.db",
		blockPath:  "block.json",
		untilError: true,
		maxTries:   3,
	}, got)

	_, err = parseRetryArgs([]string{"abci.db"})
	assert.True(t, errors.ErrInput.Is(err))
}

func TestToAbciHeader(t *testing.T) {
	now := time.Date(2019, 5, 1, 10, 0, 0, 0, time.UTC)
	h := types.Header{
		ChainID: "test-chain",
		Height:  7,
		Time:    now,
		NumTxs:  2,
		AppHash: []byte("apphash"),
	}
	h.LastBlockID.Hash = []byte("last")
	h.LastBlockID.PartsHeader.Total = 3

	got := toAbciHeader(h)
	assert.Equal(t, "test-chain", got.ChainID)
	assert.Equal(t, int64(7), got.Height)
	assert.Equal(t, now, got.Time)
	assert.Equal(t, int64(2), got.NumTxs)
	assert.Equal(t, []byte("apphash"), got.AppHash)
	assert.Equal(t, []byte("last"), got.LastBlockId.Hash)
	assert.Equal(t, int32(3), got.LastBlockId.PartsHeader.Total)
}

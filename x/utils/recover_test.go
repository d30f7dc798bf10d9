package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/store"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestRecovery(t *testing.T) {
	var h panicHandler
	r := NewRecovery()

	ctx := context.Background()
	s := store.MemStore()

	require.Panics(t, func() { h.Check(ctx, s, nil) })
	require.Panics(t, func() { h.Deliver(ctx, s, nil) })

	_, err := r.Check(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = r.Deliver(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
}

func TestRecoveryLogsPanic(t *testing.T) {
	var buf bytes.Buffer
	ctx := weave.WithLogger(context.Background(), log.NewTMLogger(log.NewSyncWriter(&buf)))
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "tipjar/withdraw"}}

	_, err := NewRecovery().Deliver(ctx, store.MemStore(), tx, panicHandler{})
	require.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, buf.String(), "recovered panic")
	assert.Contains(t, buf.String(), "path=tipjar/withdraw")

	buf.Reset()
	_, err = NewRecovery().Deliver(ctx, store.MemStore(), tx, &weavetest.Handler{DeliverErr: errors.ErrNotFound})
	require.True(t, errors.ErrNotFound.Is(err))
	assert.Empty(t, buf.String())
}

type panicHandler struct{}

var _ weave.Handler = panicHandler{}

func (panicHandler) Check(weave.Context, weave.KVStore, weave.Tx) (*weave.CheckResult, error) {
	panic("check panic")
}

func (panicHandler) Deliver(weave.Context, weave.KVStore, weave.Tx) (*weave.DeliverResult, error) {
	panic("deliver panic")
}

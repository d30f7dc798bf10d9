package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/store"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/weavetest"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	cases := map[string]struct {
		handler  *weavetest.Handler
		check    bool
		wantLog  []string
		wantNone bool
	}{
		"deliver success is logged as info": {
			handler: &weavetest.Handler{DeliverResult: weave.DeliverResult{Log: "tipped"}},
			wantLog: []string{"I[", "tipped", "path=tipjar/tip"},
		},
		"deliver failure is logged as error": {
			handler: &weavetest.Handler{DeliverErr: errors.Wrap(errors.ErrNotFound, "no jar")},
			wantLog: []string{"E[", "no jar"},
		},
		"check success is below info level": {
			handler:  &weavetest.Handler{CheckResult: weave.CheckResult{Log: "checked"}},
			check:    true,
			wantNone: true,
		},
		"check failure is logged as error": {
			handler: &weavetest.Handler{CheckErr: errors.ErrUnauthorized},
			check:   true,
			wantLog: []string{"E[", "unauthorized"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.NewFilter(log.NewTMLogger(log.NewSyncWriter(&buf)), log.AllowInfo())
			ctx := weave.WithLogger(context.Background(), logger)
			tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "tipjar/tip"}}

			if tc.check {
				NewLogging().Check(ctx, store.MemStore(), tx, tc.handler)
			} else {
				NewLogging().Deliver(ctx, store.MemStore(), tx, tc.handler)
			}

			out := buf.String()
			if tc.wantNone {
				if out != "" {
					t.Fatalf("unexpected log output: %s", out)
				}
				return
			}
			for _, want := range tc.wantLog {
				if !strings.Contains(out, want) {
					t.Fatalf("want %q in log output: %s", want, out)
				}
			}
		})
	}
}

package x_test

import (
	"context"
	"testing"

	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/weavetest"
	"github.com/iov-one/tipjar/weavetest/assert"
	"github.com/iov-one/tipjar/x"
)

func TestChainAuth(t *testing.T) {
	a, b, c := weavetest.NewCondition(), weavetest.NewCondition(), weavetest.NewCondition()
	ctx := context.Background()

	ctxAuth := &weavetest.CtxAuth{Key: "auth"}
	ctx = ctxAuth.SetConditions(ctx, b)
	auth := x.ChainAuth(&weavetest.Auth{Signer: a}, ctxAuth)

	assert.Equal(t, []weave.Condition{a, b}, auth.GetConditions(ctx))
	assert.Equal(t, a, x.MainSigner(ctx, auth))
	assert.Equal(t, true, auth.HasAddress(ctx, b.Address()))
	assert.Equal(t, false, auth.HasAddress(ctx, c.Address()))
}

func TestAuthorizedAddress(t *testing.T) {
	signer, other := weavetest.NewCondition(), weavetest.NewCondition()

	cases := map[string]struct {
		auth    x.Authenticator
		addr    weave.Address
		want    weave.Address
		wantErr *errors.Error
	}{
		"main signer is used by default": {
			auth: &weavetest.Auth{Signer: signer},
			want: signer.Address(),
		},
		"explicit signed address": {
			auth: &weavetest.Auth{Signers: []weave.Condition{other, signer}},
			addr: signer.Address(),
			want: signer.Address(),
		},
		"explicit address that did not sign": {
			auth:    &weavetest.Auth{Signer: signer},
			addr:    other.Address(),
			wantErr: errors.ErrUnauthorized,
		},
		"no signers": {
			auth:    &weavetest.Auth{},
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := x.AuthorizedAddress(context.Background(), tc.auth, tc.addr)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

package sigs

import (
	"context"

	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/x"
)

type contextKey struct{}

// withSigners is unexported, only the Decorator may authenticate signers.
func withSigners(ctx weave.Context, signers []weave.Condition) weave.Context {
	return context.WithValue(ctx, contextKey{}, signers)
}

// Authenticate reports the conditions of keys that signed the transaction.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

func (Authenticate) GetConditions(ctx weave.Context) []weave.Condition {
	signers, _ := ctx.Value(contextKey{}).([]weave.Condition)
	return signers
}

func (a Authenticate) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}

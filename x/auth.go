/*
Package x holds what the extensions of the chain share. The extensions
themselves live in subpackages.
*/
package x

import (
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
)

// Authenticator tells which conditions authorized the current transaction.
// Handlers receive one in their constructor and never depend on a concrete
// signature scheme.
type Authenticator interface {
	// GetConditions returns every fulfilled condition, main signer first.
	GetConditions(weave.Context) []weave.Condition
	// HasAddress reports whether a fulfilled condition has given address.
	HasAddress(weave.Context, weave.Address) bool
}

// ChainAuth returns an Authenticator that accepts the conditions of all
// given ones, in order.
func ChainAuth(auths ...Authenticator) Authenticator {
	return chainedAuth(auths)
}

type chainedAuth []Authenticator

func (c chainedAuth) GetConditions(ctx weave.Context) []weave.Condition {
	var conds []weave.Condition
	for _, a := range c {
		conds = append(conds, a.GetConditions(ctx)...)
	}
	return conds
}

func (c chainedAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, a := range c {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first fulfilled condition or nil.
func MainSigner(ctx weave.Context, auth Authenticator) weave.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}

// AuthorizedAddress resolves the address a message acts on behalf of. An
// empty addr stands for the main signer. A given addr must have signed.
func AuthorizedAddress(ctx weave.Context, auth Authenticator, addr weave.Address) (weave.Address, error) {
	if len(addr) != 0 {
		if !auth.HasAddress(ctx, addr) {
			return nil, errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", addr)
		}
		return addr, nil
	}
	signer := MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return signer.Address(), nil
}

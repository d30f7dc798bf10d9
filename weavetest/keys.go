package weavetest

import (
	"github.com/iov-one/tipjar/crypto"
	"github.com/iov-one/tipjar/weave"
)

// NewKey returns a new, random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns a signature condition of a new, random key.
func NewCondition() weave.Condition {
	return NewKey().PublicKey().Condition()
}

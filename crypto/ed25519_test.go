package crypto

import (
	"bytes"
	"testing"

	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weavetest/assert"
)

func TestSignVerify(t *testing.T) {
	priv := GenPrivKeyEd25519()
	pub := priv.PublicKey()
	msg := []byte("tip the jar")

	sig, err := priv.Sign(msg)
	assert.Nil(t, err)
	assert.Equal(t, true, pub.Verify(msg, sig))
	assert.Equal(t, false, pub.Verify([]byte("tip another jar"), sig))

	other := GenPrivKeyEd25519().PublicKey()
	assert.Equal(t, false, other.Verify(msg, sig))
	assert.Equal(t, false, pub.Verify(msg, nil))
}

func TestDeterministicKeys(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 32)
	a := PrivKeyEd25519FromSeed(seed).PublicKey()
	b := PrivKeyEd25519FromSeed(seed).PublicKey()
	assert.Equal(t, a.Address(), b.Address())

	if err := a.Condition().Validate(); err != nil {
		t.Fatalf("invalid condition: %s", err)
	}
	assert.Nil(t, a.Address().Validate())
}

func TestKeySerialization(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	raw, err := pub.Marshal()
	assert.Nil(t, err)

	var got PublicKey
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, pub.Ed25519, got.Ed25519)
}

func TestSignWithMalformedKey(t *testing.T) {
	_, err := (&PrivateKey{Ed25519: []byte("short")}).Sign([]byte("msg"))
	assert.IsErr(t, errors.ErrInput, err)
}

package sigs

import (
	"crypto/sha512"
	"encoding/binary"
	"io"

	"github.com/iov-one/tipjar/crypto"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
)

// signDomain is the first part of every signed payload, so that a signature
// made for another application or format version is never valid here.
var signDomain = []byte("tipjar/sig:v1\x00")

// BuildSignBytes returns the digest a signer signs for given transaction
// bytes, chain and nonce. It is the sha512 hash of
//
//	domain | len(chain id) (1 byte) | chain id | nonce (8 bytes, big endian) | tx bytes
func BuildSignBytes(txBytes []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !weave.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], uint64(seq))

	h := sha512.New()
	h.Write(signDomain)
	h.Write([]byte{byte(len(chainID))})
	io.WriteString(h, chainID)
	h.Write(nonce[:])
	h.Write(txBytes)
	return h.Sum(nil), nil
}

// BuildSignBytesTx returns the digest signed by the key using nonce seq.
func BuildSignBytesTx(tx SignedTx, chainID string, seq int64) ([]byte, error) {
	txBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	return BuildSignBytes(txBytes, chainID, seq)
}

// SignTx signs the transaction for given chain using nonce seq.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	digest, err := BuildSignBytesTx(tx, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(digest)
	if err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	return &StdSignature{
		Pubkey:    signer.PublicKey(),
		Signature: sig,
		Sequence:  seq,
	}, nil
}

// VerifyTxSignatures verifies every signature of the transaction and
// consumes their nonces. It returns the signer conditions in signature order.
// A transaction without signatures returns no conditions.
func VerifyTxSignatures(db weave.KVStore, tx SignedTx, chainID string) ([]weave.Condition, error) {
	txBytes, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	sigs := tx.GetSignatures()
	signers := make([]weave.Condition, len(sigs))
	for i, sig := range sigs {
		if signers[i], err = VerifySignature(db, sig, txBytes, chainID); err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
	}
	return signers, nil
}

// VerifySignature verifies a single signature of txBytes. The signature must
// use the next nonce of its key, which is then incremented. The first
// signature of a key creates its nonce record.
func VerifySignature(db weave.KVStore, sig *StdSignature, txBytes []byte, chainID string) (weave.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(txBytes, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}

	users := NewBucket()
	user, err := getOrCreate(users, db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := users.Put(db, user.Pubkey.Address(), user); err != nil {
		return nil, errors.Wrap(err, "save nonce")
	}
	return user.Pubkey.Condition(), nil
}

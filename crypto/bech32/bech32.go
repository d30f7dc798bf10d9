// Package bech32 encodes binary payloads into checksummed, human friendly
// strings. The heavy lifting is done by btcutil.
package bech32

import (
	"github.com/btcsuite/btcutil/bech32"
	"github.com/iov-one/tipjar/errors"
)

// Encode returns the bech32 form of the payload, starting with hrp.
func Encode(hrp string, payload []byte) (string, error) {
	groups, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "regroup payload: %s", err)
	}
	enc, err := bech32.Encode(hrp, groups)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	return enc, nil
}

// Decode returns the human readable part and the payload of a bech32
// string. A broken checksum results in ErrInput.
func Decode(enc string) (string, []byte, error) {
	hrp, groups, err := bech32.Decode(enc)
	if err != nil {
		return "", nil, errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	payload, err := bech32.ConvertBits(groups, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrapf(errors.ErrInput, "regroup payload: %s", err)
	}
	return hrp, payload, nil
}

// DecodeWithPrefix decodes enc and ensures its human readable part is hrp.
func DecodeWithPrefix(enc, hrp string) ([]byte, error) {
	got, payload, err := Decode(enc)
	if err != nil {
		return nil, err
	}
	if got != hrp {
		return nil, errors.Wrapf(errors.ErrInput, "prefix %q, want %q", got, hrp)
	}
	return payload, nil
}

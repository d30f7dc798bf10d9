package bech32

import (
	"encoding/hex"
	"testing"

	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weavetest/assert"
)

func TestDecode(t *testing.T) {
	payload, err := hex.DecodeString("746573742d7061796c6f6164")
	assert.Nil(t, err)

	cases := map[string]struct {
		enc         string
		wantHRP     string
		wantPayload []byte
		wantErr     *errors.Error
	}{
		// bech32 -e -h tiov 746573742d7061796c6f6164
		"valid": {
			enc:         "tiov1w3jhxapdwpshjmr0v9jqymqq4y",
			wantHRP:     "tiov",
			wantPayload: payload,
		},
		"broken checksum": {
			enc:     "tiov1w3jhxapdwpshjmr0v9jqymqq4z",
			wantErr: errors.ErrInput,
		},
		"no separator": {
			enc:     "tiovw3jhxapdwpshjmr0v9jqymqq4y",
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			hrp, got, err := Decode(tc.enc)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, tc.wantHRP, hrp)
			assert.Equal(t, tc.wantPayload, got)

			enc, err := Encode(hrp, got)
			assert.Nil(t, err)
			assert.Equal(t, tc.enc, enc)
		})
	}
}

func TestDecodeWithPrefix(t *testing.T) {
	enc, err := Encode("tip", []byte("jar"))
	assert.Nil(t, err)

	payload, err := DecodeWithPrefix(enc, "tip")
	assert.Nil(t, err)
	assert.Equal(t, []byte("jar"), payload)

	_, err = DecodeWithPrefix(enc, "tiov")
	assert.IsErr(t, errors.ErrInput, err)
}

package sigs

import (
	"testing"

	"github.com/iov-one/tipjar/crypto"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weavetest/assert"
)

func TestUserDataSequence(t *testing.T) {
	cases := map[string]struct {
		current  int64
		expected int64
		wantErr  *errors.Error
		wantSeq  int64
	}{
		"incremented":     {current: 3, expected: 3, wantSeq: 4},
		"mismatch":        {current: 3, expected: 2, wantErr: ErrInvalidSequence, wantSeq: 3},
		"too big":         {current: (1 << 53) - 1, expected: (1 << 53) - 1, wantErr: errors.ErrOverflow, wantSeq: (1 << 53) - 1},
		"zero to one":     {current: 0, expected: 0, wantSeq: 1},
		"future sequence": {current: 0, expected: 5, wantErr: ErrInvalidSequence},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			u := UserData{Sequence: tc.current}
			assert.IsErr(t, tc.wantErr, u.CheckAndIncrementSequence(tc.expected))
			assert.Equal(t, tc.wantSeq, u.Sequence)
		})
	}
}

func TestUserDataValidate(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()
	cases := map[string]struct {
		user    UserData
		wantErr *errors.Error
	}{
		"fresh user":            {user: UserData{}},
		"user with key":         {user: UserData{Pubkey: pub, Sequence: 10}},
		"negative":              {user: UserData{Pubkey: pub, Sequence: -1}, wantErr: ErrInvalidSequence},
		"sequence requires key": {user: UserData{Sequence: 1}, wantErr: ErrInvalidSequence},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.IsErr(t, tc.wantErr, tc.user.Validate())
		})
	}
}

func TestUserDataSerialization(t *testing.T) {
	u := &UserData{Pubkey: crypto.GenPrivKeyEd25519().PublicKey(), Sequence: 77}
	raw, err := u.Marshal()
	assert.Nil(t, err)
	var got UserData
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, u, &got)
	assert.Equal(t, u, got.Copy())
}

package gconf

import (
	"context"
	"testing"

	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/store"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/weavetest"
	"github.com/iov-one/tipjar/weavetest/assert"
)

// patchMsg copies all non zero fields of Patch onto the configuration.
type patchMsg struct {
	weavetest.Msg
	Patch *testconfig
}

func (m *patchMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	return nil
}

func (m *patchMsg) Apply(current OwnedConfig) error {
	c, ok := current.(*testconfig)
	if !ok {
		return errors.Wrapf(errors.ErrType, "%T", current)
	}
	if len(m.Patch.Owner) != 0 {
		c.Owner = m.Patch.Owner
	}
	if m.Patch.Fee != 0 {
		c.Fee = m.Patch.Fee
	}
	if m.Patch.Label != "" {
		c.Label = m.Patch.Label
	}
	return nil
}

func TestUpdateConfigurationHandler(t *testing.T) {
	owner := weavetest.NewCondition()

	cases := map[string]struct {
		initial    *testconfig
		msg        weave.Msg
		signers    []weave.Condition
		wantErr    *errors.Error
		wantConfig *testconfig
	}{
		"owner changes every field": {
			initial:    &testconfig{Owner: owner.Address(), Fee: 5, Label: "old"},
			msg:        &patchMsg{Patch: &testconfig{Fee: 9, Label: "new"}},
			signers:    []weave.Condition{owner},
			wantConfig: &testconfig{Owner: owner.Address(), Fee: 9, Label: "new"},
		},
		"zero values are kept": {
			initial:    &testconfig{Owner: owner.Address(), Fee: 5, Label: "old"},
			msg:        &patchMsg{Patch: &testconfig{Label: "new"}},
			signers:    []weave.Condition{owner},
			wantConfig: &testconfig{Owner: owner.Address(), Fee: 5, Label: "new"},
		},
		"stranger cannot change": {
			initial: &testconfig{Owner: owner.Address()},
			msg:     &patchMsg{Patch: &testconfig{Fee: 1}},
			signers: []weave.Condition{weavetest.NewCondition()},
			wantErr: errors.ErrUnauthorized,
		},
		"configuration without owner cannot change": {
			initial: &testconfig{},
			msg:     &patchMsg{Patch: &testconfig{Fee: 1}},
			signers: []weave.Condition{owner},
			wantErr: errors.ErrUnauthorized,
		},
		"missing configuration cannot be created": {
			msg:     &patchMsg{Patch: &testconfig{Owner: owner.Address()}},
			signers: []weave.Condition{owner},
			wantErr: errors.ErrUnauthorized,
		},
		"invalid result is not stored": {
			initial:    &testconfig{Owner: owner.Address(), Label: "old"},
			msg:        &patchMsg{Patch: &testconfig{Label: "invalid"}},
			signers:    []weave.Condition{owner},
			wantErr:    errors.ErrInput,
			wantConfig: &testconfig{Owner: owner.Address(), Label: "old"},
		},
		"missing patch": {
			initial: &testconfig{Owner: owner.Address()},
			msg:     &patchMsg{},
			signers: []weave.Condition{owner},
			wantErr: errors.ErrEmpty,
		},
		"not a patch message": {
			initial: &testconfig{Owner: owner.Address()},
			msg:     &weavetest.Msg{RoutePath: "test/other"},
			signers: []weave.Condition{owner},
			wantErr: errors.ErrMsg,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if tc.initial != nil {
				// Bypass validation, so that an owner-less state can be tested.
				raw, err := tc.initial.Marshal()
				assert.Nil(t, err)
				assert.Nil(t, db.Set(Key("testpkg"), raw))
			}

			auth := &weavetest.CtxAuth{Key: "auth"}
			h := NewUpdateConfigurationHandler("testpkg", func() OwnedConfig { return &testconfig{} }, auth)
			ctx := auth.SetConditions(context.Background(), tc.signers...)
			tx := &weavetest.Tx{Msg: tc.msg}

			cache := db.CacheWrap()
			_, err := h.Check(ctx, cache, tx)
			assert.IsErr(t, tc.wantErr, err)
			cache.Discard()

			_, err = h.Deliver(ctx, db, tx)
			assert.IsErr(t, tc.wantErr, err)

			if tc.wantConfig != nil {
				var got testconfig
				assert.Nil(t, Load(db, "testpkg", &got))
				assert.Equal(t, tc.wantConfig, &got)
			}
		})
	}
}

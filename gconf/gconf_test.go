package gconf

import (
	"encoding/json"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tipjar/codec"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/store"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/weavetest"
	"github.com/iov-one/tipjar/weavetest/assert"
)

type testconfig struct {
	Owner weave.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner"`
	Fee   uint64        `protobuf:"varint,2,opt,name=fee,proto3" json:"fee"`
	Label string        `protobuf:"bytes,3,opt,name=label,proto3" json:"label"`
}

var _ OwnedConfig = (*testconfig)(nil)

func (c *testconfig) Marshal() ([]byte, error)   { return codec.Marshal((*testconfigMsg)(c)) }
func (c *testconfig) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*testconfigMsg)(c)) }

type testconfigMsg testconfig

func (m *testconfigMsg) Reset()         { *m = testconfigMsg{} }
func (m *testconfigMsg) String() string { return proto.CompactTextString(m) }
func (*testconfigMsg) ProtoMessage()    {}

func (c *testconfig) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Field("Owner", err, "invalid owner")
	}
	if c.Label == "invalid" {
		return errors.Field("Label", errors.ErrInput, "refused")
	}
	return nil
}

func (c *testconfig) GetOwner() weave.Address {
	return c.Owner
}

func TestSaveLoad(t *testing.T) {
	owner := weavetest.NewCondition().Address()

	cases := map[string]struct {
		conf    *testconfig
		wantErr *errors.Error
	}{
		"all fields": {
			conf: &testconfig{Owner: owner, Fee: 852151421, Label: "jar fees"},
		},
		"zero values": {
			conf: &testconfig{Owner: owner},
		},
		"invalid configuration": {
			conf:    &testconfig{Owner: weave.Address("too short")},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			err := Save(db, "testpkg", tc.conf)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				raw, err := db.Get(Key("testpkg"))
				assert.Nil(t, err)
				assert.Nil(t, raw)
				return
			}
			var got testconfig
			assert.Nil(t, Load(db, "testpkg", &got))
			assert.Equal(t, tc.conf, &got)

			var other testconfig
			assert.IsErr(t, errors.ErrNotFound, Load(db, "otherpkg", &other))
		})
	}
}

func TestInitConfig(t *testing.T) {
	owner := weavetest.NewCondition().Address()

	cases := map[string]struct {
		genesis string
		want    *testconfig
		wantErr *errors.Error
	}{
		"configuration present": {
			genesis: `{"conf": {"testpkg": {"owner": "` + owner.String() + `", "fee": 7, "label": "x"}}}`,
			want:    &testconfig{Owner: owner, Fee: 7, Label: "x"},
		},
		"missing package": {
			genesis: `{"conf": {"other": {}}}`,
			wantErr: errors.ErrNotFound,
		},
		"missing conf section": {
			genesis: `{}`,
			wantErr: errors.ErrNotFound,
		},
		"invalid content": {
			genesis: `{"conf": {"testpkg": {"owner": "` + owner.String() + `", "label": "invalid"}}}`,
			wantErr: errors.ErrInput,
		},
		"malformed json": {
			genesis: `{"conf": {"testpkg": {"fee": "seven"}}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts weave.Options
			if err := json.Unmarshal([]byte(tc.genesis), &opts); err != nil {
				t.Fatalf("cannot decode genesis: %s", err)
			}
			db := store.MemStore()
			err := InitConfig(db, opts, "testpkg", &testconfig{})
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			var got testconfig
			assert.Nil(t, Load(db, "testpkg", &got))
			assert.Equal(t, tc.want, &got)
		})
	}
}

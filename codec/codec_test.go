package codec

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/weavetest/assert"
)

type note struct {
	Author weave.Address `protobuf:"bytes,1,opt,name=author,proto3"`
	Text   string        `protobuf:"bytes,2,opt,name=text,proto3"`
	Votes  uint64        `protobuf:"varint,3,opt,name=votes,proto3"`
	Tags   [][]byte      `protobuf:"bytes,4,rep,name=tags"`
}

func (m *note) Reset()         { *m = note{} }
func (m *note) String() string { return proto.CompactTextString(m) }
func (*note) ProtoMessage()    {}

func TestRoundTrip(t *testing.T) {
	cases := map[string]*note{
		"empty": {},
		"all fields": {
			Author: weave.NewCondition("sigs", "ed25519", []byte{1, 2}).Address(),
			Text:   "thanks",
			Votes:  1 << 40,
			Tags:   [][]byte{[]byte("a"), {}, []byte("c")},
		},
	}
	for testName, want := range cases {
		t.Run(testName, func(t *testing.T) {
			raw, err := Marshal(want)
			assert.Nil(t, err)
			if raw == nil {
				t.Fatal("nil serialization")
			}
			var got note
			assert.Nil(t, Unmarshal(raw, &got))
			assert.Equal(t, want, &got)
		})
	}
}

func TestWireLayout(t *testing.T) {
	raw, err := Marshal(&note{Text: "hi", Votes: 300})
	assert.Nil(t, err)
	// field 2, length 2, "hi" then field 3 varint 300
	assert.Equal(t, []byte{0x12, 0x02, 'h', 'i', 0x18, 0xac, 0x02}, raw)
}

func TestUnmarshal(t *testing.T) {
	cases := map[string]struct {
		raw     []byte
		want    *note
		wantErr *errors.Error
	}{
		"unknown field is dropped": {
			raw:  []byte{0x18, 0x07, 0x28, 0x01},
			want: &note{Votes: 7},
		},
		"truncated length": {
			raw:     []byte{0x12, 0x05, 'h'},
			wantErr: errors.ErrInput,
		},
		"malformed varint": {
			raw:     []byte{0xff},
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := &note{Text: "replaced"}
			err := Unmarshal(tc.raw, got)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

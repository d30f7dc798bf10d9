package orm

import (
	"bytes"
	"sort"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tipjar/codec"
	"github.com/iov-one/tipjar/errors"
)

// MultiRef is a sorted set of primary keys, the value of a secondary index
// entry.
type MultiRef struct {
	Refs [][]byte `protobuf:"bytes,1,rep,name=refs" json:"refs,omitempty"`
}

// Add inserts ref keeping the set sorted. ErrDuplicate is returned if ref is
// already present.
func (m *MultiRef) Add(ref []byte) error {
	i, found := m.search(ref)
	if found {
		return errors.Wrap(errors.ErrDuplicate, "reference already in set")
	}
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove deletes ref. ErrNotFound is returned if ref is not present.
func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.search(ref)
	if !found {
		return errors.Wrap(errors.ErrNotFound, "reference not in set")
	}
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

// search returns the position of ref, or the position it should be inserted
// at when missing.
func (m *MultiRef) search(ref []byte) (int, bool) {
	i := sort.Search(len(m.Refs), func(i int) bool {
		return bytes.Compare(m.Refs[i], ref) >= 0
	})
	return i, i < len(m.Refs) && bytes.Equal(m.Refs[i], ref)
}

func (m *MultiRef) Marshal() ([]byte, error)   { return codec.Marshal((*multiRefMsg)(m)) }
func (m *MultiRef) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*multiRefMsg)(m)) }

type multiRefMsg MultiRef

func (m *multiRefMsg) Reset()         { *m = multiRefMsg{} }
func (m *multiRefMsg) String() string { return proto.CompactTextString(m) }
func (*multiRefMsg) ProtoMessage()    {}

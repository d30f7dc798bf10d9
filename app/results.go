package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/tipjar/codec"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
)

// ResultSet is the serialized list of keys or values returned by a query.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results" json:"results,omitempty"`
}

func (r *ResultSet) Marshal() ([]byte, error)   { return codec.Marshal((*resultSetMsg)(r)) }
func (r *ResultSet) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, (*resultSetMsg)(r)) }

type resultSetMsg ResultSet

func (m *resultSetMsg) Reset()         { *m = resultSetMsg{} }
func (m *resultSetMsg) String() string { return proto.CompactTextString(m) }
func (*resultSetMsg) ProtoMessage()    {}

// ResultsFromKeys collects the keys of the models.
func ResultsFromKeys(models []weave.Model) *ResultSet {
	return collect(models, func(m weave.Model) []byte { return m.Key })
}

// ResultsFromValues collects the values of the models.
func ResultsFromValues(models []weave.Model) *ResultSet {
	return collect(models, func(m weave.Model) []byte { return m.Value })
}

func collect(models []weave.Model, part func(weave.Model) []byte) *ResultSet {
	rs := &ResultSet{Results: make([][]byte, len(models))}
	for i, m := range models {
		rs.Results[i] = part(m)
	}
	return rs
}

// JoinResults zips the key and value sets of a query response back into
// models.
func JoinResults(keys, values *ResultSet) ([]weave.Model, error) {
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys and %d values", len(keys.Results), len(values.Results))
	}
	models := make([]weave.Model, len(keys.Results))
	for i, k := range keys.Results {
		models[i] = weave.Pair(k, values.Results[i])
	}
	return models, nil
}

// UnmarshalOneResult decodes the first entry of a serialized ResultSet into
// dst. An empty set leaves dst unchanged.
func UnmarshalOneResult(raw []byte, dst weave.Persistent) error {
	var rs ResultSet
	if err := rs.Unmarshal(raw); err != nil {
		return err
	}
	if len(rs.Results) == 0 {
		return nil
	}
	return dst.Unmarshal(rs.Results[0])
}

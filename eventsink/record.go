package eventsink

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/x/cash"
	"github.com/iov-one/tipjar/x/tipjar"
)

// namespace of all record ids.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/iov-one/tipjar/eventsink"))

// Record is a single event together with its position on the chain.
type Record struct {
	ID      uuid.UUID
	ChainID string
	Height  int64
	// TxIndex is the position of the emitting transaction within the block.
	TxIndex int
	// Index is the position of the event within the transaction result.
	Index int
	Kind  string
	// JarID is set for events concerning a tip jar.
	JarID []byte
	// Payload is the serialized event.
	Payload    []byte
	Attributes map[string]string
}

// RecordID returns the id of an event at given chain position. The same
// position always produces the same id.
func RecordID(chainID string, height int64, txIndex, index int) uuid.UUID {
	name := fmt.Sprintf("%s|%d|%d|%d", chainID, height, txIndex, index)
	return uuid.NewSHA1(namespace, []byte(name))
}

// NewRecord builds a record of an event emitted by a transaction at given
// chain position.
func NewRecord(chainID string, height int64, txIndex, index int, e weave.Event) (Record, error) {
	payload, err := e.Marshal()
	if err != nil {
		return Record{}, errors.Wrapf(err, "marshal %s event", e.Kind())
	}

	attrs := make(map[string]string)
	for _, kv := range e.Attributes() {
		attrs[string(kv.Key)] = string(kv.Value)
	}

	var jarID []byte
	if enc, ok := attrs[tipjar.TagJar]; ok {
		jarID, err = hex.DecodeString(enc)
		if err != nil {
			return Record{}, errors.Wrapf(errors.ErrInput, "jar attribute: %s", err)
		}
	}

	return Record{
		ID:         RecordID(chainID, height, txIndex, index),
		ChainID:    chainID,
		Height:     height,
		TxIndex:    txIndex,
		Index:      index,
		Kind:       e.Kind(),
		JarID:      jarID,
		Payload:    payload,
		Attributes: attrs,
	}, nil
}

type recordView struct {
	ID            string            `json:"id"`
	ChainID       string            `json:"chain_id"`
	Height        int64             `json:"height"`
	TxIndex       int               `json:"tx_index"`
	Index         int               `json:"index"`
	Kind          string            `json:"kind"`
	Jar           string            `json:"jar,omitempty"`
	Attributes    map[string]string `json:"attributes"`
	AmountDisplay string            `json:"amount_display,omitempty"`
}

// MarshalJSON returns the representation published to the brokers.
func (r Record) MarshalJSON() ([]byte, error) {
	view := recordView{
		ID:         r.ID.String(),
		ChainID:    r.ChainID,
		Height:     r.Height,
		TxIndex:    r.TxIndex,
		Index:      r.Index,
		Kind:       r.Kind,
		Attributes: r.Attributes,
	}
	if len(r.JarID) != 0 {
		view.Jar = hex.EncodeToString(r.JarID)
	}
	if raw, ok := r.Attributes[tipjar.TagAmount]; ok {
		amount, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "amount attribute %q", raw)
		}
		view.AmountDisplay = cash.FormatAmount(amount)
	}
	return json.Marshal(view)
}

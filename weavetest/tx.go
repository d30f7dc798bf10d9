package weavetest

import "github.com/iov-one/tipjar/weave"

// Tx carries a single message. A set Err is returned instead of the message.
// Tx cannot be serialized.
type Tx struct {
	Msg weave.Msg
	Err error
}

var _ weave.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (weave.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("weavetest.Tx cannot be serialized")
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("weavetest.Tx cannot be serialized")
}

// Msg is routed by its RoutePath. Serialization returns or keeps the
// Serialized content. Validate returns ValidErr.
type Msg struct {
	RoutePath  string
	Serialized []byte
	// Err is returned by Marshal and Unmarshal.
	Err      error
	ValidErr error
}

var _ weave.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.ValidErr
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}

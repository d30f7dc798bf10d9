package orm

import (
	"github.com/iov-one/tipjar/errors"
)

// NewObject returns an Object storing value under key.
func NewObject(key []byte, value Model) Object {
	return record{key: key, value: value}
}

type record struct {
	key   []byte
	value Model
}

func (r record) Key() []byte {
	return r.key
}

func (r record) Value() Model {
	return r.value
}

func (r record) Validate() error {
	if len(r.key) == 0 {
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	}
	if r.value == nil {
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return errors.Field("Value", r.value.Validate(), "invalid value")
}

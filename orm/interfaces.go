package orm

import (
	"github.com/iov-one/tipjar/weave"
)

// Model is an entity stored in a bucket.
type Model interface {
	weave.Persistent
	Validate() error
	Copy() Model
}

// Object is a model together with the key it is stored under, relative to
// the bucket prefix.
type Object interface {
	Key() []byte
	Value() Model
	// Validate checks both the key and the model.
	Validate() error
}

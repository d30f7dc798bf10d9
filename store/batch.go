package store

import (
	"github.com/iov-one/tipjar/errors"
)

// op is a single recorded write.
type op struct {
	del   bool
	key   []byte
	value []byte
}

func (o op) apply(out SetDeleter) error {
	if o.del {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

// NonAtomicBatch records writes and applies them one by one, in order, on
// Write. A failure in the middle leaves the earlier writes applied, so it
// must only be used in front of in memory stores.
type NonAtomicBatch struct {
	out SetDeleter
	ops []op
}

var _ Batch = (*NonAtomicBatch)(nil)

func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, op{key: key, value: value})
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, op{del: true, key: key})
	return nil
}

// Write applies all recorded writes and empties the batch.
func (b *NonAtomicBatch) Write() error {
	for i, o := range b.ops {
		if err := o.apply(b.out); err != nil {
			b.ops = b.ops[i:]
			return errors.Wrap(err, "batch write")
		}
	}
	b.ops = nil
	return nil
}

// Reset drops all recorded writes.
func (b *NonAtomicBatch) Reset() {
	b.ops = nil
}

// Len returns the number of recorded writes.
func (b *NonAtomicBatch) Len() int {
	return len(b.ops)
}

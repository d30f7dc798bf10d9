package store

import (
	"bytes"

	"github.com/iov-one/tipjar/errors"
)

// mergeIterator combines the cached items of a btree with the iterator of
// the store below. Cached entries shadow the parent ones with the same key
// and deleted entries hide them.
type mergeIterator struct {
	cache []keyer
	desc  bool

	parent     Iterator
	parentDone bool
	hasPeek    bool
	peekKey    []byte
	peekValue  []byte
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(cache []keyer, parent Iterator, desc bool) *mergeIterator {
	return &mergeIterator{
		cache:  cache,
		parent: parent,
		desc:   desc,
	}
}

func (m *mergeIterator) peek() error {
	if m.hasPeek || m.parentDone {
		return nil
	}
	key, value, err := m.parent.Next()
	if errors.ErrIteratorDone.Is(err) {
		m.parentDone = true
		return nil
	}
	if err != nil {
		return err
	}
	m.hasPeek = true
	m.peekKey, m.peekValue = key, value
	return nil
}

func (m *mergeIterator) Next() (key, value []byte, err error) {
	for {
		if err := m.peek(); err != nil {
			return nil, nil, err
		}

		if len(m.cache) == 0 {
			if !m.hasPeek {
				return nil, nil, errors.ErrIteratorDone
			}
			m.hasPeek = false
			return m.peekKey, m.peekValue, nil
		}

		item := m.cache[0]
		if m.hasPeek {
			cmp := bytes.Compare(item.Key(), m.peekKey)
			if m.desc {
				cmp = -cmp
			}
			if cmp > 0 {
				m.hasPeek = false
				return m.peekKey, m.peekValue, nil
			}
			if cmp == 0 {
				// Parent value is shadowed by the cached one.
				m.hasPeek = false
			}
		}

		m.cache = m.cache[1:]
		if set, ok := item.(setItem); ok {
			return set.key, set.value, nil
		}
	}
}

func (m *mergeIterator) Release() {
	m.parent.Release()
	m.cache = nil
}

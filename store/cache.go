package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/tipjar/errors"
)

// DefaultFreeListSize is the node free list size of a new cache.
const DefaultFreeListSize = btree.DefaultFreeListSize

// MemStore returns an empty in memory store, without any persistence.
func MemStore() CacheableKVStore {
	var empty EmptyKVStore
	return NewBTreeCacheWrap(empty, empty.NewBatch(), nil)
}

// BTreeCacheWrap keeps uncommitted writes in a btree in front of a read only
// store. Every write is also recorded in the batch, which applies it to the
// real storage on Write.
type BTreeCacheWrap struct {
	tree  *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap creates a cache over kv. free may be shared by nested
// caches to reuse btree nodes, a new list is allocated when it is nil.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		tree:  btree.NewWithFreeList(2, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap returns a cache on top of this cache.
func (c BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(c, c.NewBatch(), c.free)
}

func (c BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(c)
}

// Write applies all cached changes to the underlying store and empties the
// cache.
func (c BTreeCacheWrap) Write() error {
	err := c.batch.Write()
	c.Discard()
	return err
}

// Discard drops all cached changes.
func (c BTreeCacheWrap) Discard() {
	// Deleted nodes are returned to the free list.
	for c.tree.DeleteMin() != nil {
	}
	if b, ok := c.batch.(*NonAtomicBatch); ok {
		b.Reset()
	}
}

func (c BTreeCacheWrap) Set(key, value []byte) error {
	c.tree.ReplaceOrInsert(setItem{bkey{key}, value})
	return c.batch.Set(key, value)
}

func (c BTreeCacheWrap) Delete(key []byte) error {
	c.tree.ReplaceOrInsert(deletedItem{bkey{key}})
	return c.batch.Delete(key)
}

func (c BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	switch it := c.tree.Get(bkey{key}).(type) {
	case nil:
		return c.back.Get(key)
	case setItem:
		return it.value, nil
	case deletedItem:
		return nil, nil
	default:
		return nil, errors.Wrapf(errors.ErrDatabase, "unexpected cache item %T", it)
	}
}

func (c BTreeCacheWrap) Has(key []byte) (bool, error) {
	switch it := c.tree.Get(bkey{key}).(type) {
	case nil:
		return c.back.Has(key)
	case setItem:
		return true, nil
	case deletedItem:
		return false, nil
	default:
		return false, errors.Wrapf(errors.ErrDatabase, "unexpected cache item %T", it)
	}
}

// Iterator returns keys of [start, end) in ascending order, cached changes
// merged over the underlying store. A nil bound is open.
func (c BTreeCacheWrap) Iterator(start, end []byte) (Iterator, error) {
	parent, err := c.back.Iterator(start, end)
	if err != nil {
		return nil, err
	}
	return newMergeIterator(c.cached(start, end), parent, false), nil
}

// ReverseIterator is Iterator in descending order.
func (c BTreeCacheWrap) ReverseIterator(start, end []byte) (Iterator, error) {
	parent, err := c.back.ReverseIterator(start, end)
	if err != nil {
		return nil, err
	}
	items := c.cached(start, end)
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return newMergeIterator(items, parent, true), nil
}

// cached returns the cached items of [start, end) in ascending order.
func (c BTreeCacheWrap) cached(start, end []byte) []keyer {
	var items []keyer
	collect := func(i btree.Item) bool {
		items = append(items, i.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		c.tree.Ascend(collect)
	case start == nil:
		c.tree.AscendLessThan(bkey{end}, collect)
	case end == nil:
		c.tree.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		c.tree.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// keyer is implemented by every btree item.
type keyer interface {
	Key() []byte
}

// bkey is used as a lookup item and embedded in stored items.
type bkey struct {
	key []byte
}

var (
	_ keyer      = bkey{}
	_ btree.Item = bkey{}
)

func (k bkey) Key() []byte {
	return k.key
}

// Less orders items by key. It panics for items that are not a keyer.
func (k bkey) Less(than btree.Item) bool {
	return bytes.Compare(k.key, than.(keyer).Key()) < 0
}

// deletedItem hides a key of the underlying store.
type deletedItem struct {
	bkey
}

type setItem struct {
	bkey
	value []byte
}

/*
Package orm stores models in prefixed sections of the key value store.

A bucket holds models of a single type under "<bucket name>:<key>" keys.
It may maintain secondary indexes, for example jars by owner, and exposes
its content and indexes to ABCI queries.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is the untyped building block of ModelBucket. All models are
// created by newModel and must be of the same type.
type Bucket struct {
	name     string
	prefix   []byte
	newModel func() Model
	indexes  map[string]Index
}

var _ weave.QueryHandler = Bucket{}

// NewBucket returns a bucket using given name as the key prefix. It panics
// if the name is not 3 to 10 lowercase letters or underscores.
func NewBucket(name string, newModel func() Model) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name: %q", name))
	}
	return Bucket{
		name:     name,
		prefix:   []byte(name + ":"),
		newModel: newModel,
	}
}

func (b Bucket) Name() string {
	return b.name
}

// Register makes the bucket content queryable under /<name> and each index
// under /<name>/<index name>. An empty name defaults to the bucket name.
func (b Bucket) Register(name string, r weave.QueryRouter) {
	if name == "" {
		name = b.name
	}
	root := "/" + name
	r.Register(root, b)
	for indexName, idx := range b.indexes {
		r.Register(root+"/"+indexName, idx)
	}
}

func (b Bucket) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	switch mod {
	case weave.KeyQueryMod:
		key := b.DBKey(data)
		value, err := db.Get(key)
		if err != nil || value == nil {
			return nil, err
		}
		return []weave.Model{weave.Pair(key, value)}, nil
	case weave.PrefixQueryMod:
		return queryPrefix(db, b.DBKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// DBKey returns a newly allocated, prefixed database key.
func (b Bucket) DBKey(key []byte) []byte {
	out := make([]byte, len(b.prefix)+len(key))
	copy(out, b.prefix)
	copy(out[len(b.prefix):], key)
	return out
}

// Get returns the object stored under key or nil if there is none.
func (b Bucket) Get(db weave.ReadOnlyKVStore, key []byte) (Object, error) {
	raw, err := db.Get(b.DBKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	return b.Parse(key, raw)
}

func (b Bucket) Has(db weave.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Parse decodes a stored value into a new model.
func (b Bucket) Parse(key, raw []byte) (Object, error) {
	m := b.newModel()
	if err := m.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "cannot parse %s", b.name)
	}
	return NewObject(key, m), nil
}

// Save validates and writes the object, updating all indexes.
func (b Bucket) Save(db weave.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	raw, err := obj.Value().Marshal()
	if err != nil {
		return err
	}
	if err := b.updateIndexes(db, obj.Key(), obj); err != nil {
		return err
	}
	return db.Set(b.DBKey(obj.Key()), raw)
}

// Delete removes the object stored under key and its index references.
func (b Bucket) Delete(db weave.KVStore, key []byte) error {
	if err := b.updateIndexes(db, key, nil); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

func (b Bucket) updateIndexes(db weave.KVStore, key []byte, next Object) error {
	if len(b.indexes) == 0 {
		return nil
	}
	prev, err := b.Get(db, key)
	if err != nil {
		return err
	}
	// Delete of a missing object leaves indexes untouched.
	if prev == nil && next == nil {
		return nil
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, prev, next); err != nil {
			return err
		}
	}
	return nil
}

// WithIndex returns a copy of the bucket maintaining an additional index.
// It panics if an index with the same name exists.
func (b Bucket) WithIndex(name string, indexer Indexer, unique bool) Bucket {
	if _, ok := b.indexes[name]; ok {
		panic(fmt.Sprintf("index %q registered twice", name))
	}
	indexes := make(map[string]Index, len(b.indexes)+1)
	for n, idx := range b.indexes {
		indexes[n] = idx
	}
	indexes[name] = NewIndex(b.name+"_"+name, indexer, unique, b.DBKey)
	b.indexes = indexes
	return b
}

// GetIndexed returns all objects referenced by given index value.
func (b Bucket) GetIndexed(db weave.ReadOnlyKVStore, name string, value []byte) ([]Object, error) {
	idx, ok := b.indexes[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "unknown index %q", name)
	}
	refs, err := idx.GetAt(db, value)
	if err != nil {
		return nil, err
	}
	objs := make([]Object, 0, len(refs))
	for _, ref := range refs {
		obj, err := b.Get(db, ref)
		if err != nil {
			return nil, err
		}
		if obj != nil {
			objs = append(objs, obj)
		}
	}
	return objs, nil
}

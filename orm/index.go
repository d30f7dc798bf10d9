package orm

import (
	"bytes"

	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
)

// Index is a secondary index of a bucket.
type Index interface {
	weave.QueryHandler

	// Name returns the name of this index.
	Name() string

	// Update updates the index. It should be called when any of the bucket
	// entities has changed in the store.
	//
	// prev == nil means insert
	// save == nil means delete
	// both == nil is error
	// if both != nil and prev.Key() != save.Key() this is an error
	Update(db weave.KVStore, prev Object, save Object) error

	// GetAt returns the primary keys of all entities indexed under given
	// value.
	GetAt(db weave.ReadOnlyKVStore, value []byte) ([][]byte, error)
}

const indexPrefix = "_i."

// Indexer calculates the secondary index key for a given object. A nil key
// means the object is not indexed.
type Indexer func(Object) ([]byte, error)

// compactIndex stores all primary keys indexed under the same value as
// a single MultiRef. It is meant for indexes where a value references only
// a handful of entities, like jars of a single owner.
type compactIndex struct {
	name   string
	id     []byte
	unique bool
	index  Indexer
	refKey func([]byte) []byte
}

var _ Index = compactIndex{}

// NewIndex constructs an index
// Indexer calculates the index for an object
// unique enforces a unique constraint on the index
// refKey calculates the absolute dbkey for a ref
func NewIndex(name string, indexer Indexer, unique bool, refKey func([]byte) []byte) Index {
	return compactIndex{
		name:   name,
		id:     append([]byte(indexPrefix), []byte(name+":")...),
		index:  indexer,
		unique: unique,
		refKey: refKey,
	}
}

func (i compactIndex) Name() string {
	return i.name
}

// indexKey is the full key we store in the db, including prefix
func (i compactIndex) indexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update handles updating the reference to the object in
// the secondary index.
func (i compactIndex) Update(db weave.KVStore, prev Object, save Object) error {
	switch {
	case prev == nil && save == nil:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case prev == nil:
		return i.insert(db, save)
	case save == nil:
		return i.remove(db, prev)
	}

	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrHuman, "last and current object keys must be the same")
	}
	oldKey, err := i.index(prev)
	if err != nil {
		return err
	}
	newKey, err := i.index(save)
	if err != nil {
		return err
	}
	if bytes.Equal(oldKey, newKey) {
		return nil
	}
	if err := i.removeRef(db, oldKey, prev.Key()); err != nil {
		return err
	}
	return i.insertRef(db, newKey, save.Key())
}

func (i compactIndex) insert(db weave.KVStore, obj Object) error {
	key, err := i.index(obj)
	if err != nil {
		return err
	}
	return i.insertRef(db, key, obj.Key())
}

func (i compactIndex) remove(db weave.KVStore, obj Object) error {
	key, err := i.index(obj)
	if err != nil {
		return err
	}
	return i.removeRef(db, key, obj.Key())
}

func (i compactIndex) insertRef(db weave.KVStore, key, ref []byte) error {
	if key == nil {
		return nil
	}
	refs, err := i.load(db, key)
	if err != nil {
		return err
	}
	if i.unique && len(refs.Refs) > 0 {
		return errors.Wrapf(errors.ErrDuplicate, "index %s", i.name)
	}
	if err := refs.Add(ref); err != nil {
		return err
	}
	return i.store(db, key, refs)
}

func (i compactIndex) removeRef(db weave.KVStore, key, ref []byte) error {
	if key == nil {
		return nil
	}
	refs, err := i.load(db, key)
	if err != nil {
		return err
	}
	if err := refs.Remove(ref); err != nil {
		return errors.Wrapf(err, "index %s", i.name)
	}
	return i.store(db, key, refs)
}

func (i compactIndex) load(db weave.ReadOnlyKVStore, key []byte) (*MultiRef, error) {
	var refs MultiRef
	raw, err := db.Get(i.indexKey(key))
	if err != nil {
		return nil, err
	}
	if raw != nil {
		if err := refs.Unmarshal(raw); err != nil {
			return nil, errors.Wrapf(err, "index %s", i.name)
		}
	}
	return &refs, nil
}

func (i compactIndex) store(db weave.KVStore, key []byte, refs *MultiRef) error {
	if len(refs.Refs) == 0 {
		return db.Delete(i.indexKey(key))
	}
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(i.indexKey(key), raw)
}

// GetAt returns a list of all primary keys that are indexed under given
// value.
func (i compactIndex) GetAt(db weave.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	refs, err := i.load(db, value)
	if err != nil {
		return nil, err
	}
	return refs.Refs, nil
}

// Query handles queries from the QueryRouter. Index queries return the
// indexed entities, not the references.
func (i compactIndex) Query(db weave.ReadOnlyKVStore, mod string, data []byte) ([]weave.Model, error) {
	var refs [][]byte
	switch mod {
	case weave.KeyQueryMod:
		r, err := i.GetAt(db, data)
		if err != nil {
			return nil, err
		}
		refs = r
	case weave.PrefixQueryMod:
		models, err := queryPrefix(db, i.indexKey(data))
		if err != nil {
			return nil, err
		}
		for _, m := range models {
			var mr MultiRef
			if err := mr.Unmarshal(m.Value); err != nil {
				return nil, errors.Wrapf(err, "index %s", i.name)
			}
			refs = append(refs, mr.Refs...)
		}
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}

	var res []weave.Model
	for _, ref := range refs {
		key := i.refKey(ref)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value != nil {
			res = append(res, weave.Pair(key, value))
		}
	}
	return res, nil
}

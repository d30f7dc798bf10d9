package orm

import (
	"github.com/iov-one/tipjar/store"
	"github.com/iov-one/tipjar/weave"
)

// queryPrefix returns all models stored under keys starting with given
// prefix.
func queryPrefix(db weave.ReadOnlyKVStore, prefix []byte) ([]weave.Model, error) {
	it, err := db.Iterator(prefix, prefixRangeEnd(prefix))
	if err != nil {
		return nil, err
	}
	return store.ReadAll(it)
}

// prefixRangeEnd returns the smallest key that is greater than all keys
// starting with given prefix. Nil is returned when there is no such a key.
func prefixRangeEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

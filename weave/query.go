package weave

import "fmt"

// Query modes understood by buckets. The default mode reads a single key,
// the prefix mode lists everything under the given prefix.
const (
	KeyQueryMod    = ""
	PrefixQueryMod = "prefix"
)

// Model is a single key value entry of a query result.
type Model struct {
	Key   []byte
	Value []byte
}

func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers ABCI queries of a single path, for example "/jars".
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRouter maps query paths to their handlers.
type QueryRouter map[string]QueryHandler

func NewQueryRouter() QueryRouter {
	return make(QueryRouter)
}

// RegisterAll calls every registration function with this router.
// Extensions expose one such function, usually named RegisterQuery.
func (r QueryRouter) RegisterAll(fns ...func(QueryRouter)) {
	for _, fn := range fns {
		fn(r)
	}
}

// Register panics when path is already taken.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, ok := r[path]; ok {
		panic(fmt.Sprintf("query path %q registered twice", path))
	}
	r[path] = h
}

// Handler returns nil for an unknown path.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r[path]
}

package app

import (
	"strings"

	"github.com/iov-one/tipjar/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// Query reads the last committed state. The request Height is ignored.
//
// Path selects a bucket, "/<bucket>", or one of its indexes,
// "/<bucket>/<index>". A "?<mod>" suffix, for example "?prefix", is passed
// to the query handler. Data is the key to look for.
//
// Both Key and Value of the response carry a serialized ResultSet. The two
// sets are always of the same length and can be zipped with JoinResults.
func (s *StoreApp) Query(req abci.RequestQuery) abci.ResponseQuery {
	path, mod := splitPath(req.Path)
	h := s.queryRouter.Handler(path)
	if h == nil {
		return queryError(errors.Wrapf(errors.ErrNotFound, "query path %q", req.Path))
	}

	info, err := s.store.CommitInfo()
	if err != nil {
		return queryError(err)
	}
	models, err := h.Query(s.store.QueryStore(), mod, req.Data)
	if err != nil {
		return queryError(err)
	}

	res := abci.ResponseQuery{Height: info.Version}
	if res.Key, err = ResultsFromKeys(models).Marshal(); err != nil {
		return queryError(err)
	}
	if res.Value, err = ResultsFromValues(models).Marshal(); err != nil {
		return queryError(err)
	}
	return res
}

// splitPath separates the "?" modifier from the query path.
func splitPath(path string) (string, string) {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i], path[i+1:]
	}
	return path, ""
}

func queryError(err error) abci.ResponseQuery {
	code, log := errors.ABCIInfo(err, false)
	return abci.ResponseQuery{Code: code, Log: log}
}

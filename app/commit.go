package app

import (
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
)

// CommitStore keeps the three views of the ledger state an ABCI application
// works with. The deliver cache collects changes of the current block and is
// flushed on commit. The check cache validates mempool transactions and is
// dropped on commit. Queries read only committed data.
type CommitStore struct {
	committed weave.CommitKVStore
	deliver   weave.KVCacheWrap
	check     weave.KVCacheWrap
}

// NewCommitStore loads the latest committed version of given store. It panics
// if the state cannot be loaded, a node cannot run without it.
func NewCommitStore(db weave.CommitKVStore) *CommitStore {
	if err := db.LoadLatestVersion(); err != nil {
		panic(errors.Wrap(err, "load latest state version"))
	}
	cs := &CommitStore{committed: db}
	cs.resetCaches()
	return cs
}

func (cs *CommitStore) resetCaches() {
	cs.deliver = cs.committed.CacheWrap()
	cs.check = cs.committed.CacheWrap()
}

// CommitInfo returns the height and hash of the last commit.
func (cs *CommitStore) CommitInfo() (weave.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit writes all changes delivered in the current block and persists them
// as a new version.
func (cs *CommitStore) Commit() (weave.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return weave.CommitID{}, errors.Wrap(err, "flush delivered changes")
	}
	cs.check.Discard()

	id, err := cs.committed.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	cs.resetCaches()
	return id, nil
}

// CheckStore is used by CheckTx.
func (cs *CommitStore) CheckStore() weave.CacheableKVStore {
	return cs.check
}

// DeliverStore is used by InitChain and DeliverTx.
func (cs *CommitStore) DeliverStore() weave.CacheableKVStore {
	return cs.deliver
}

// QueryStore returns a throw away view of the committed state.
func (cs *CommitStore) QueryStore() weave.ReadOnlyKVStore {
	return cs.committed.CacheWrap()
}

// chainIDKey holds the chain id written in genesis. The "_wv:" prefix is
// reserved for framework data.
const chainIDKey = "_wv:chainID"

// mustLoadChainID returns the stored chain id or an empty string before
// genesis. It panics on a database failure.
func mustLoadChainID(db weave.ReadOnlyKVStore) string {
	raw, err := db.Get([]byte(chainIDKey))
	if err != nil {
		panic(errors.Wrap(err, "load chain id"))
	}
	return string(raw)
}

// saveChainID writes the chain id. It can be set only once.
func saveChainID(db weave.KVStore, chainID string) error {
	if !weave.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id %q", chainID)
	}
	switch exists, err := db.Has([]byte(chainIDKey)); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case exists:
		return errors.Wrap(errors.ErrState, "chain id is set in genesis only")
	}
	if err := db.Set([]byte(chainIDKey), []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}

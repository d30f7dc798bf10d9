package weavetest

import (
	"testing"

	"github.com/iov-one/tipjar/store/iavl"
)

// CommitKVStore opens the leveldb backed store kept in dir, the same engine
// a node runs on. Open the same dir again after Close to test a restart.
// The store is closed when the test ends.
func CommitKVStore(t testing.TB, dir string) *iavl.CommitStore {
	t.Helper()

	db, err := iavl.NewCommitStore(dir, "state")
	if err != nil {
		t.Fatalf("cannot open commit store in %s: %s", dir, err)
	}
	t.Cleanup(db.Close)
	return db
}

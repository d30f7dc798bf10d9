package tipjar

import (
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/orm"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/x/cash"
)

// Controller gives other extensions and clients read access to jars.
type Controller struct {
	jars orm.ModelBucket
	cash cash.Controller
}

// NewController returns a controller reading jar custody balances through
// given cash controller.
func NewController(cashCtrl cash.Controller) Controller {
	return Controller{
		jars: NewJarBucket(),
		cash: cashCtrl,
	}
}

// Jar returns the jar stored under given id.
func (c Controller) Jar(db weave.ReadOnlyKVStore, jarID []byte) (*Jar, error) {
	var j Jar
	if err := c.jars.One(db, jarID, &j); err != nil {
		return nil, errors.Wrap(err, "cannot load jar")
	}
	return &j, nil
}

// Balance returns the value held in custody by the jar, available for
// withdrawal.
func (c Controller) Balance(db weave.ReadOnlyKVStore, jarID []byte) (uint64, error) {
	if err := c.jars.Has(db, jarID); err != nil {
		return 0, err
	}
	return c.cash.Balance(db, JarAddress(jarID))
}

// JarsOf returns the ids of all jars owned by given address.
func (c Controller) JarsOf(db weave.ReadOnlyKVStore, owner weave.Address) ([][]byte, error) {
	var jars []Jar
	ids, err := c.jars.ByIndex(db, "owner", owner, &jars)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return nil, err
	}
	return ids, nil
}

package tipjar

import (
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/gconf"
	"github.com/iov-one/tipjar/weave"
)

// Initializer loads the tip jar configuration from the genesis "conf"
// section. The configuration is optional.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var conf Configuration
	switch err := gconf.InitConfig(db, opts, confPkg, &conf); {
	case err == nil, errors.ErrNotFound.Is(err):
		return nil
	default:
		return errors.Wrap(err, "tipjar configuration")
	}
}

package gconf

import (
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
)

// genesisSection is the genesis key holding configurations of all packages.
const genesisSection = "conf"

// ReadStore is the part of weave.ReadOnlyKVStore needed to load
// a configuration.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of weave.KVStore needed to save a configuration.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

// Config is a configuration object of a single package.
type Config interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
	Validate() error
}

// Key returns the database key of the configuration owned by given package.
func Key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates and stores the configuration of given package, replacing
// the previous one.
func Save(db Store, pkg string, c Config) error {
	if err := c.Validate(); err != nil {
		return errors.Wrapf(err, "%s configuration", pkg)
	}
	raw, err := c.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %s configuration", pkg)
	}
	return db.Set(Key(pkg), raw)
}

// Load reads the configuration of given package into dst. ErrNotFound is
// returned when the package was never configured.
func Load(db ReadStore, pkg string, dst Config) error {
	raw, err := db.Get(Key(pkg))
	switch {
	case err != nil:
		return errors.Wrapf(err, "load %s configuration", pkg)
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "%s configuration", pkg)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal %s configuration", pkg)
	}
	return nil
}

// InitConfig reads genesis conf.<pkg> into conf and saves it. ErrNotFound
// is returned when the genesis does not configure given package.
func InitConfig(db Store, opts weave.Options, pkg string, conf Config) error {
	var section weave.Options
	if err := opts.ReadOptions(genesisSection, &section); err != nil {
		return errors.Wrap(err, "genesis conf section")
	}
	if section[pkg] == nil {
		return errors.Wrapf(errors.ErrNotFound, "no %s configuration in genesis", pkg)
	}
	if err := section.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "genesis %s configuration", pkg)
	}
	return Save(db, pkg, conf)
}

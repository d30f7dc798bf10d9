package server

import (
	"encoding/json"
	"os"

	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/store"
	"github.com/iov-one/tipjar/weave"
)

// ValidateGenesis runs the initializer against the app_state of each given
// genesis file. Nothing is persisted, the state is built in memory and
// dropped. The first failing file is reported.
func ValidateGenesis(ini weave.Initializer, genesisPaths []string) error {
	for _, path := range genesisPaths {
		opts, err := readAppState(path)
		if err == nil {
			err = ini.FromGenesis(opts, store.MemStore())
		}
		if err != nil {
			return errors.Wrapf(err, "genesis %s", path)
		}
	}
	return nil
}

// readAppState returns the application options of a genesis file, after
// checking the chain id the application would be started with.
func readAppState(path string) (weave.Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "read: %s", err)
	}
	var doc struct {
		ChainID string        `json:"chain_id"`
		State   weave.Options `json:"app_state"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "decode: %s", err)
	}
	if !weave.IsValidChainID(doc.ChainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id %q", doc.ChainID)
	}
	return doc.State, nil
}

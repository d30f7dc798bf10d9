package server

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/iov-one/tipjar/errors"
	"github.com/tendermint/tendermint/libs/log"
)

const appStateKey = "app_state"

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd adds the app_state generated by gen to the genesis file that
// `tendermint init` created under the home directory. An already present
// app_state is never overwritten.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	options, err := gen(args)
	if err != nil {
		return errors.Wrap(err, "cannot generate app state")
	}

	genFile := GenesisPath(home)
	if err := addGenesisOptions(genFile, options); err != nil {
		return err
	}
	logger.Info("App state written to genesis", "path", genFile)
	return nil
}

// GenesisPath returns the location of the tendermint genesis file for given
// home directory.
func GenesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// genesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type genesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot read genesis, run tendermint init first: %s", err)
	}

	var doc genesisDoc
	if err := json.Unmarshal(bz, &doc); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %s: %s", filename, err)
	}

	if v, ok := doc[appStateKey]; ok && len(v) > 0 && string(v) != "null" && string(v) != "{}" {
		return errors.Wrap(errors.ErrState, "app_state already set in genesis")
	}

	doc[appStateKey] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot serialize genesis: %s", err)
	}
	return os.WriteFile(filename, out, 0600)
}

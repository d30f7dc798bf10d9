package cash

import (
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
)

const genesisKey = "cash"

// GenesisAccount is an initial wallet balance. The address is decoded with
// weave.ParseAddress, so any of its formats is accepted.
type GenesisAccount struct {
	Address weave.Address `json:"address"`
	Balance uint64        `json:"balance"`
}

// Initializer mints the genesis balances. Balances of an address listed
// more than once are added.
type Initializer struct{}

var _ weave.Initializer = Initializer{}

func (Initializer) FromGenesis(opts weave.Options, db weave.KVStore) error {
	var accounts []GenesisAccount
	if err := opts.ReadOptions(genesisKey, &accounts); err != nil {
		return err
	}
	mint := NewController(NewBucket()).CoinMint
	for i, a := range accounts {
		err := a.Address.Validate()
		if err == nil {
			err = mint(db, a.Address, a.Balance)
		}
		if err != nil {
			return errors.Wrapf(err, "genesis account %d", i)
		}
	}
	return nil
}

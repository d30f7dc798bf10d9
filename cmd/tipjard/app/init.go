package app

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/tipjar/app"
	"github.com/iov-one/tipjar/commands/server"
	"github.com/iov-one/tipjar/crypto"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/x/cash"
	"github.com/iov-one/tipjar/x/tipjar"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// DevBalance is given to the generated account when init is called without
// any account.
const DevBalance = "1000000"

// out receives the generated development key.
var out io.Writer = os.Stdout

type genesis struct {
	Cash []cash.GenesisAccount `json:"cash"`
	Conf *genesisConf          `json:"conf,omitempty"`
}

type genesisConf struct {
	Tipjar tipjar.Configuration `json:"tipjar"`
}

// GenInitOptions produces the app_state of the genesis file.
//
//	init [-owner addr] [-collector addr] [-fee amount] [addr:amount...]
//
// Amounts are given in whole units. When no account is given, a new key is
// generated, printed out and funded with DevBalance.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var owner, collector, fee string
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.StringVar(&owner, "owner", "", "address allowed to update the tipjar configuration")
	fs.StringVar(&collector, "collector", "", "address receiving jar allocation fees")
	fs.StringVar(&fee, "fee", "", "jar allocation fee in whole units")
	if err := fs.Parse(args); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}

	var gen genesis
	accounts := fs.Args()
	if len(accounts) == 0 {
		addr, err := generateDevKey()
		if err != nil {
			return nil, err
		}
		accounts = []string{addr.String() + ":" + DevBalance}
	}
	for _, a := range accounts {
		acct, err := parseAccount(a)
		if err != nil {
			return nil, err
		}
		gen.Cash = append(gen.Cash, acct)
	}

	if owner != "" || collector != "" || fee != "" {
		var conf tipjar.Configuration
		var err error
		if conf.Owner, err = parseOptionalAddress(owner); err != nil {
			return nil, errors.Wrap(err, "owner")
		}
		if conf.FeeCollector, err = parseOptionalAddress(collector); err != nil {
			return nil, errors.Wrap(err, "collector")
		}
		if fee != "" {
			if conf.AllocationFee, err = cash.ParseAmount(fee); err != nil {
				return nil, errors.Wrap(err, "fee")
			}
		}
		if err := conf.Validate(); err != nil {
			return nil, err
		}
		gen.Conf = &genesisConf{Tipjar: conf}
	}

	raw, err := json.MarshalIndent(gen, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot serialize genesis: %s", err)
	}
	return raw, nil
}

// parseAccount reads an "address:amount" pair.
func parseAccount(s string) (cash.GenesisAccount, error) {
	chunks := strings.Split(s, ":")
	if len(chunks) < 2 {
		return cash.GenesisAccount{}, errors.Wrapf(errors.ErrInput, "account must be address:amount, got %q", s)
	}
	// addresses may have their own format prefix, the amount is always last
	rawAddr := strings.Join(chunks[:len(chunks)-1], ":")
	addr, err := weave.ParseAddress(rawAddr)
	if err != nil {
		return cash.GenesisAccount{}, errors.Wrapf(err, "account %q", s)
	}
	amount, err := cash.ParseAmount(chunks[len(chunks)-1])
	if err != nil {
		return cash.GenesisAccount{}, errors.Wrapf(err, "account %q", s)
	}
	return cash.GenesisAccount{Address: addr, Balance: amount}, nil
}

func parseOptionalAddress(s string) (weave.Address, error) {
	if s == "" {
		return nil, nil
	}
	return weave.ParseAddress(s)
}

// generateDevKey creates a new key and prints out its address and seed, so
// that the funded account can be used.
func generateDevKey() (weave.Address, error) {
	key := crypto.GenPrivKeyEd25519()
	addr := key.PublicKey().Address()
	seed := key.Ed25519[:32]
	if _, err := fmt.Fprintf(out, "address: %s\nseed: %s\n", addr, hex.EncodeToString(seed)); err != nil {
		return nil, errors.Wrapf(errors.ErrState, "cannot print key: %s", err)
	}
	return addr, nil
}

// NewAppGenerator returns the generator used by the start command. Events of
// every committed block are written to the sink, nil disables that.
func NewAppGenerator(sink app.EventSink) server.AppGenerator {
	return func(home string, logger log.Logger, debug bool) (abci.Application, error) {
		// db goes in a subdir, but "" -> "" for memdb
		var dbPath string
		if home != "" {
			dbPath = filepath.Join(home, "abci.db")
		}
		kv, err := CommitKVStore(dbPath)
		if err != nil {
			return nil, err
		}
		application := Application(kv, debug)
		application.WithLogger(logger)
		if sink != nil {
			application.WithEventSink(sink)
		}
		return application, nil
	}
}

// InlineApp builds the application on top of an already opened store. It
// never forwards events.
func InlineApp(kv weave.CommitKVStore, logger log.Logger, debug bool) abci.Application {
	application := Application(kv, debug)
	application.WithLogger(logger)
	return application
}

var (
	_ server.GenOptions         = GenInitOptions
	_ server.InlineAppGenerator = InlineApp
)

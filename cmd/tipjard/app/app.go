/*
Package app links together all the various components
to construct the tipjar application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/tipjar/app"
	"github.com/iov-one/tipjar/errors"
	"github.com/iov-one/tipjar/store/iavl"
	"github.com/iov-one/tipjar/weave"
	"github.com/iov-one/tipjar/x"
	"github.com/iov-one/tipjar/x/cash"
	"github.com/iov-one/tipjar/x/sigs"
	"github.com/iov-one/tipjar/x/tipjar"
	"github.com/iov-one/tipjar/x/utils"
)

// Name is reported to tendermint in the ABCI info response.
const Name = "tipjar"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	)
}

// Router returns a router dispatching to cash, tipjar and sigs handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	ctrl := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, ctrl)
	tipjar.RegisterRoutes(r, authFn, ctrl)
	sigs.RegisterRoutes(r, authFn)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/auth" and "/jars"
func QueryRouter() weave.QueryRouter {
	r := weave.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		tipjar.RegisterQuery,
	)
	return r
}

// Initializers loads the genesis of every extension.
func Initializers() weave.Initializer {
	return weave.ChainInitializers(
		cash.Initializer{},
		tipjar.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() weave.Handler {
	return Chain().WithHandler(Router(Authenticator()))
}

// Application constructs a basic ABCI application with
// the given arguments.
func Application(kv weave.CommitKVStore, debug bool) *app.BaseApp {
	store := app.NewStoreApp(Name, kv, QueryRouter(), context.Background()).
		WithInit(Initializers())
	return app.NewBaseApp(store, TxDecoder, Stack(), debug)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (*iavl.CommitStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.MockCommitStore(), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name)
}

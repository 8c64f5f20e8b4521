/*
Package app links together all the various components
to construct the custody chain application.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store/iavl"
	"github.com/iov-one/custody/x"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/multisig"
	"github.com/iov-one/custody/x/sigs"
	"github.com/iov-one/custody/x/utils"
)

// Authenticator returns the typical authentication, public key signatures,
// extended with the authority granted to calls executed by a multisig.
func Authenticator() x.Authenticator {
	return multisig.NewAuthenticate(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewMetrics(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment the signer sequence
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
		utils.NewActionTagger(),
	)
}

// Router returns a router dispatching to every extension. Calls approved by
// a multisig are dispatched through the same router.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	control := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, control)
	sigs.RegisterRoutes(r, authFn)
	multisig.RegisterRoutes(r, authFn, control, app.NewRouterExecutor(r))
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/auth", "/multisigs" and "/transactions"
func QueryRouter() custody.QueryRouter {
	r := custody.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		multisig.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack() custody.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h custody.Handler, tx custody.TxDecoder, dbPath string, cacheSize int, debug bool) (app.BaseApp, error) {
	kv, err := CommitKVStore(dbPath, cacheSize)
	if err != nil {
		return app.BaseApp{}, err
	}
	store, err := app.NewStoreApp(name, kv, QueryRouter(), context.Background())
	if err != nil {
		return app.BaseApp{}, err
	}
	return app.NewBaseApp(store, tx, h, multisig.NewExpiryTicker(), debug), nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string, cacheSize int) (custody.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewCommitStore("", "", cacheSize)
	}

	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidently add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name, cacheSize)
}

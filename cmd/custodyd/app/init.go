package app

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/commands/server"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/cash"
	"github.com/iov-one/custody/x/multisig"
	abci "github.com/tendermint/tendermint/abci/types"
)

// defaultBalance is issued to the genesis account when none is given.
const defaultBalance = 1000000

// GenInitOptions will produce some basic options for one rich
// account, to use for dev mode
//
// Accepts an optional address (hex or bech32) and an optional balance.
// Without an address a new key is generated and printed.
func GenInitOptions(args []string) (json.RawMessage, error) {
	var addr custody.Address
	if len(args) > 0 {
		a, err := custody.ParseAddress(args[0])
		if err != nil {
			return nil, err
		}
		addr = a
	} else {
		// if no address provided, auto-generate one
		// and print out the keys
		a, keys, err := GenerateCoinKey()
		if err != nil {
			return nil, err
		}
		addr = a
		fmt.Println(keys)
	}

	balance := uint64(defaultBalance)
	if len(args) > 1 {
		b, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil || b == 0 {
			return nil, errors.Wrapf(errors.ErrAmount, "invalid balance %q", args[1])
		}
		balance = b
	}

	ms := multisig.DefaultConfiguration()
	state := genesisState{
		Cash: []cash.GenesisAccount{{Address: addr, Balance: balance}},
		Conf: genesisConf{
			Cash:     cash.Configuration{ExistentialDeposit: cash.DefaultExistentialDeposit},
			Multisig: ms,
		},
	}
	return json.MarshalIndent(state, "", "  ")
}

type genesisState struct {
	Cash []cash.GenesisAccount `json:"cash"`
	Conf genesisConf           `json:"conf"`
}

type genesisConf struct {
	Cash     cash.Configuration     `json:"cash"`
	Multisig multisig.Configuration `json:"multisig"`
}

// Initializers returns the genesis initializers of every extension.
func Initializers() custody.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		multisig.Initializer{},
	)
}

// GenerateApp is used to create a stub for server/start.go command
func GenerateApp(options *server.Options) (abci.Application, error) {
	// db goes in a subdir, but "" -> "" for memdb
	var dbPath string
	if options.Home != "" {
		dbPath = filepath.Join(options.Home, "custody.db")
	}

	application, err := Application("custody", Stack(), TxDecoder, dbPath, options.CacheSize, options.Debug)
	if err != nil {
		return nil, err
	}
	application.WithInit(Initializers())

	// set the logger and return
	application.WithLogger(options.Logger)
	return application, nil
}

type output struct {
	Pubkey *crypto.PublicKey  `json:"pub_key"`
	Secret *crypto.PrivateKey `json:"secret"`
}

// GenerateCoinKey returns the address of a public key,
// along with a json representation of the keys.
// You can give coins to this address and
// sign transactions with the secret.
func GenerateCoinKey() (custody.Address, string, error) {
	privKey := crypto.GenPrivKeyEd25519()
	pubKey := privKey.PublicKey()
	addr := pubKey.Address()

	out := output{Pubkey: pubKey, Secret: privKey}
	keys, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return addr, string(keys), nil
}

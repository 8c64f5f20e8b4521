package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/custody/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
	tmtypes "github.com/tendermint/tendermint/types"
	tmtime "github.com/tendermint/tendermint/types/time"
)

// GenOptions can parse command-line and flag to
// generate default app_state for the genesis file.
// This is application-specific
type GenOptions func(args []string) (json.RawMessage, error)

// InitCmd will write the app_state into the genesis file of the home
// directory, creating the genesis file if it does not exist yet. It also
// writes the default node configuration unless one is present.
func InitCmd(gen GenOptions, logger log.Logger, home string, args []string) error {
	genFile := genesisPath(home)
	if fileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
	} else {
		if err := createGenesis(genFile); err != nil {
			return err
		}
		logger.Info("Generated genesis file", "path", genFile)
	}

	options, err := gen(args)
	if err != nil {
		return err
	}
	if err := addGenesisOptions(genFile, options); err != nil {
		return errors.Wrap(err, "genesis app state")
	}

	if fileExists(configPath(home)) {
		logger.Info("Found config file", "path", configPath(home))
		return nil
	}
	if err := WriteConfig(home, DefaultConfig()); err != nil {
		return err
	}
	logger.Info("Generated config file", "path", configPath(home))
	return nil
}

func genesisPath(home string) string {
	return filepath.Join(home, "config", "genesis.json")
}

// createGenesis writes a genesis without validators. Validators are added
// when the node is initialized by tendermint.
func createGenesis(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create config dir")
	}
	genDoc := tmtypes.GenesisDoc{
		ChainID:     fmt.Sprintf("custody-%v", cmn.RandStr(6)),
		GenesisTime: tmtime.Now(),
	}
	return genDoc.SaveAs(path)
}

// GenesisDoc involves some tendermint-specific structures we don't
// want to parse, so we just grab it into a raw object format,
// so we can add one line.
type GenesisDoc map[string]json.RawMessage

func addGenesisOptions(filename string, options json.RawMessage) error {
	bz, err := ioutil.ReadFile(filename)
	if err != nil {
		return err
	}

	var doc GenesisDoc
	err = json.Unmarshal(bz, &doc)
	if err != nil {
		return err
	}

	doc["app_state"] = options
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	return ioutil.WriteFile(filename, out, 0600)
}

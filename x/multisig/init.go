package multisig

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

// Initializer stores the configuration from the genesis file.
type Initializer struct{}

var _ custody.Initializer = Initializer{}

// FromGenesis stores the multisig configuration if the genesis declares one.
// Without it the default configuration applies.
func (Initializer) FromGenesis(opts custody.Options, db custody.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, ConfigPackage, &conf); err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "init config")
	}
	return nil
}

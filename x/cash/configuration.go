package cash

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

// ConfigPackage is the name under which the configuration is stored and
// read from the genesis file.
const ConfigPackage = "cash"

// DefaultExistentialDeposit is used until a configuration is stored.
const DefaultExistentialDeposit = 1

// Configuration of the cash extension.
type Configuration struct {
	// ExistentialDeposit is the minimal free balance an account must keep
	// to exist.
	ExistentialDeposit uint64 `json:"existential_deposit"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return custody.MarshalModel(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return custody.UnmarshalModel(raw, c)
}

func (c *Configuration) Validate() error {
	if c.ExistentialDeposit == 0 {
		return errors.Wrap(errors.ErrState, "existential deposit must be positive")
	}
	return nil
}

// LoadConfiguration returns the stored configuration, or the default one
// if none was stored yet.
func LoadConfiguration(db gconf.ReadStore) (Configuration, error) {
	conf := Configuration{ExistentialDeposit: DefaultExistentialDeposit}
	if err := gconf.Load(db, ConfigPackage, &conf); err != nil && !errors.ErrNotFound.Is(err) {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}

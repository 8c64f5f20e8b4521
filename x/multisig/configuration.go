package multisig

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

// ConfigPackage is the name under which the configuration is stored and read
// from the genesis file.
const ConfigPackage = "multisig"

// Configuration of the multisig extension.
type Configuration struct {
	// DefaultThreshold is used when a create message does not declare one.
	DefaultThreshold uint32 `json:"default_threshold"`
	// MaxMembers limits both the members of an account and the votes of a
	// transaction.
	MaxMembers uint32 `json:"max_members"`
	// Deposit is held in the account for its whole life.
	Deposit uint64 `json:"deposit"`
	// ExpirationBlocks is the number of blocks a transaction stays open.
	ExpirationBlocks int64 `json:"expiration_blocks"`
}

// DefaultConfiguration is used until a configuration is stored.
func DefaultConfiguration() Configuration {
	return Configuration{
		DefaultThreshold: 6,
		MaxMembers:       10,
		Deposit:          20,
		ExpirationBlocks: 100,
	}
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return custody.MarshalModel(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return custody.UnmarshalModel(raw, c)
}

func (c *Configuration) Validate() error {
	if c.DefaultThreshold == 0 {
		return errors.Wrap(errors.ErrState, "default threshold must be positive")
	}
	if c.MaxMembers == 0 {
		return errors.Wrap(errors.ErrState, "max members must be positive")
	}
	if c.ExpirationBlocks <= 0 {
		return errors.Wrap(errors.ErrState, "expiration blocks must be positive")
	}
	return nil
}

// LoadConfiguration returns the stored configuration, or the default one
// if none was stored yet.
func LoadConfiguration(db gconf.ReadStore) (Configuration, error) {
	conf := DefaultConfiguration()
	if err := gconf.Load(db, ConfigPackage, &conf); err != nil && !errors.ErrNotFound.Is(err) {
		return conf, errors.Wrap(err, "load configuration")
	}
	return conf, nil
}

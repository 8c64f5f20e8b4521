package server

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/iov-one/custody/errors"
)

// ConfigFile is the name of the node configuration file in the home
// directory.
const ConfigFile = "config.toml"

// Config holds the node settings. Every value can be overridden by a flag
// of the start command.
type Config struct {
	// Bind is the address the ABCI server listens on.
	Bind     string `toml:"bind"`
	LogLevel string `toml:"log_level"`
	// CacheSize is the number of nodes the state tree keeps in memory.
	CacheSize int `toml:"cache_size"`
	// MetricsAddr is where prometheus metrics are served. Empty disables
	// the endpoint.
	MetricsAddr string `toml:"metrics_addr"`
	Debug       bool   `toml:"debug"`
}

// DefaultConfig is used for every value missing from the file.
func DefaultConfig() Config {
	return Config{
		Bind:      "tcp://localhost:26658",
		LogLevel:  "info",
		CacheSize: 10000,
	}
}

func configPath(home string) string {
	return filepath.Join(home, ConfigFile)
}

// LoadConfig reads the configuration file of given home directory. A
// missing file is not an error, the default configuration is returned.
func LoadConfig(home string) (Config, error) {
	conf := DefaultConfig()
	path := configPath(home)
	if !fileExists(path) {
		return conf, nil
	}
	if _, err := toml.DecodeFile(path, &conf); err != nil {
		return conf, errors.Wrapf(errors.ErrInput, "decode %s: %s", path, err)
	}
	return conf, nil
}

// WriteConfig stores the configuration in given home directory.
func WriteConfig(home string, conf Config) error {
	if err := os.MkdirAll(home, 0755); err != nil {
		return errors.Wrap(err, "create home")
	}
	fd, err := os.OpenFile(configPath(home), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, "open config")
	}
	defer fd.Close()
	if err := toml.NewEncoder(fd).Encode(conf); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return nil
}

func fileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return !os.IsNotExist(err)
}

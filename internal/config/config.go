// Package config loads vaultd settings from a TOML file, environment
// variables and built-in defaults.
package config

import (
	"path/filepath"
)

// DefaultConfigFile is the file name looked up in the data directory.
const DefaultConfigFile = "vaultd.toml"

// Config is the complete vaultd configuration.
type Config struct {
	// Vault is the address of the vault this host operates, as hex or a name.
	Vault string `toml:"vault" mapstructure:"vault"`

	// IdentityFile holds the hex secp256k1 key requests are signed with.
	IdentityFile string `toml:"identity_file" mapstructure:"identity_file"`

	Storage  StorageConfig  `toml:"storage" mapstructure:"storage"`
	Recorder RecorderConfig `toml:"recorder" mapstructure:"recorder"`
	Market   MarketConfig   `toml:"market" mapstructure:"market"`
	Crank    CrankConfig    `toml:"crank" mapstructure:"crank"`
	Log      LogConfig      `toml:"log" mapstructure:"log"`

	configPath string `toml:"-" mapstructure:"-"`
}

// StorageConfig selects the key-value backend vault records live in.
type StorageConfig struct {
	Backend     string `toml:"backend" mapstructure:"backend"`
	Path        string `toml:"path" mapstructure:"path"`
	CacheSize   int    `toml:"cache_size" mapstructure:"cache_size"`
	Compression string `toml:"compression" mapstructure:"compression"`
}

// RecorderConfig selects where operation history is written.
type RecorderConfig struct {
	Driver string `toml:"driver" mapstructure:"driver"`
	DSN    string `toml:"dsn" mapstructure:"dsn"`
}

// MarketConfig points at the reserves fixture of the simulated market.
type MarketConfig struct {
	// Fixture is read when State does not exist yet.
	Fixture string `toml:"fixture" mapstructure:"fixture"`
	// State is where the market is saved after every operation.
	State string `toml:"state" mapstructure:"state"`
	// StalenessSlots overrides the fixture value when non-zero.
	StalenessSlots uint64 `toml:"staleness_slots" mapstructure:"staleness_slots"`
}

// CrankConfig drives the periodic invest crank.
type CrankConfig struct {
	Enabled  bool   `toml:"enabled" mapstructure:"enabled"`
	Schedule string `toml:"schedule" mapstructure:"schedule"`
	// Payer owns the token account that covers rounding losses.
	Payer string `toml:"payer" mapstructure:"payer"`
}

// LogConfig controls logging.
type LogConfig struct {
	Debug bool `toml:"debug" mapstructure:"debug"`
}

// GetConfigPath returns the path the configuration was read from, or "" when
// only defaults were used.
func (c *Config) GetConfigPath() string {
	return c.configPath
}

// ResolvePath makes p relative to the directory of the config file.
func (c *Config) ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.configPath == "" {
		return p
	}
	return filepath.Join(filepath.Dir(c.configPath), p)
}

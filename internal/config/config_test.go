package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
vault = "usdc-vault"

[storage]
backend = "leveldb"
path = "db"
compression = "none"

[recorder]
driver = "none"

[market]
fixture = "reserves.yaml"
state = "state.yaml"
staleness_slots = 3

[crank]
enabled = true
schedule = "*/30 * * * * *"
payer = "alice"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "usdc-vault", config.Vault)
	assert.Equal(t, "leveldb", config.Storage.Backend)
	assert.Equal(t, "none", config.Storage.Compression)
	assert.Equal(t, 64, config.Storage.CacheSize, "unset keys keep defaults")
	assert.Equal(t, uint64(3), config.Market.StalenessSlots)
	assert.True(t, config.Crank.Enabled)
	assert.Equal(t, "alice", config.Crank.Payer)
	assert.Equal(t, path, config.GetConfigPath())
	assert.Equal(t, filepath.Join(filepath.Dir(path), "db"), config.ResolvePath(config.Storage.Path))
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "pebble", config.Storage.Backend)
	assert.Equal(t, "lz4", config.Storage.Compression)
	assert.Equal(t, "sqlite", config.Recorder.Driver)
	assert.False(t, config.Crank.Enabled)
	assert.Equal(t, "", config.GetConfigPath())
	assert.Equal(t, "data/db", config.ResolvePath(config.Storage.Path))
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadConfigEnvironmentOverride(t *testing.T) {
	t.Setenv("VAULTD_STORAGE_BACKEND", "bbolt")
	t.Setenv("VAULTD_LOG_DEBUG", "true")

	config, err := LoadConfig(writeConfig(t, "[storage]\nbackend = \"pebble\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "bbolt", config.Storage.Backend)
	assert.True(t, config.Log.Debug)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Vault:    "v",
			Storage:  StorageConfig{Backend: "pebble", Path: "db", CacheSize: 8, Compression: "lz4"},
			Recorder: RecorderConfig{Driver: "sqlite", DSN: "history.sqlite"},
			Market:   MarketConfig{State: "market.yaml"},
			Crank:    CrankConfig{Enabled: true, Schedule: "1 * * * * *", Payer: "p"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"empty vault", func(c *Config) { c.Vault = " " }, "vault cannot be empty"},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "nudb" }, "unknown backend"},
		{"memory needs no path", func(c *Config) { c.Storage.Backend = "memory"; c.Storage.Path = "" }, ""},
		{"missing path", func(c *Config) { c.Storage.Path = "" }, "path is required"},
		{"negative cache", func(c *Config) { c.Storage.CacheSize = -1 }, "cache_size"},
		{"unknown compression", func(c *Config) { c.Storage.Compression = "zstd" }, "unknown compression"},
		{"recorder without dsn", func(c *Config) { c.Recorder.DSN = "" }, "dsn is required"},
		{"unknown recorder", func(c *Config) { c.Recorder.Driver = "mysql" }, "unknown driver"},
		{"no recorder", func(c *Config) { c.Recorder = RecorderConfig{Driver: "none"} }, ""},
		{"empty market state", func(c *Config) { c.Market.State = "" }, "state path"},
		{"bad schedule", func(c *Config) { c.Crank.Schedule = "every minute" }, "invalid schedule"},
		{"crank without payer", func(c *Config) { c.Crank.Payer = "" }, "payer is required"},
		{"disabled crank skips checks", func(c *Config) { c.Crank = CrankConfig{} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := ValidateConfig(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/LeJamon/goYieldVault/internal/storage"
	"github.com/LeJamon/goYieldVault/internal/storage/compression"
	"github.com/LeJamon/goYieldVault/internal/storage/recorder"
)

// ValidateConfig checks every section of the configuration.
func ValidateConfig(config *Config) error {
	if strings.TrimSpace(config.Vault) == "" {
		return fmt.Errorf("vault cannot be empty")
	}
	if err := config.Storage.Validate(); err != nil {
		return fmt.Errorf("storage validation failed: %w", err)
	}
	if err := config.Recorder.Validate(); err != nil {
		return fmt.Errorf("recorder validation failed: %w", err)
	}
	if err := config.Market.Validate(); err != nil {
		return fmt.Errorf("market validation failed: %w", err)
	}
	if err := config.Crank.Validate(); err != nil {
		return fmt.Errorf("crank validation failed: %w", err)
	}
	return nil
}

// Validate checks the storage section.
func (s *StorageConfig) Validate() error {
	if !slices.Contains(storage.Backends, s.Backend) {
		return fmt.Errorf("unknown backend %q, expected one of %s", s.Backend, strings.Join(storage.Backends, ", "))
	}
	if s.Backend != storage.BackendMemory && s.Path == "" {
		return fmt.Errorf("path is required for backend %s", s.Backend)
	}
	if s.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative, got %d", s.CacheSize)
	}
	if !compression.IsAvailable(s.Compression) {
		return fmt.Errorf("unknown compression %q", s.Compression)
	}
	return nil
}

// Validate checks the recorder section.
func (r *RecorderConfig) Validate() error {
	switch strings.ToLower(r.Driver) {
	case recorder.DriverNone, "":
		return nil
	case recorder.DriverSQLite, recorder.DriverPostgres:
		if r.DSN == "" {
			return fmt.Errorf("dsn is required for driver %s", r.Driver)
		}
		return nil
	default:
		return fmt.Errorf("unknown driver %q", r.Driver)
	}
}

// Validate checks the market section.
func (m *MarketConfig) Validate() error {
	if m.State == "" {
		return fmt.Errorf("state path cannot be empty")
	}
	return nil
}

// Validate checks the crank section. The schedule uses six fields, seconds first.
func (c *CrankConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	if _, err := parser.Parse(c.Schedule); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", c.Schedule, err)
	}
	if c.Payer == "" {
		return fmt.Errorf("payer is required when the crank is enabled")
	}
	return nil
}

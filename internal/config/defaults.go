package config

import "github.com/spf13/viper"

// setDefaults sets the values used when neither the file nor the
// environment provides one.
func setDefaults(v *viper.Viper) {
	v.SetDefault("vault", "vault")
	v.SetDefault("identity_file", "identity.key")

	v.SetDefault("storage.backend", "pebble")
	v.SetDefault("storage.path", "data/db")
	v.SetDefault("storage.cache_size", 64)
	v.SetDefault("storage.compression", "lz4")

	v.SetDefault("recorder.driver", "sqlite")
	v.SetDefault("recorder.dsn", "data/history.sqlite")

	v.SetDefault("market.fixture", "market.yaml")
	v.SetDefault("market.state", "data/market.yaml")
	v.SetDefault("market.staleness_slots", 0)

	// Every minute on the first second.
	v.SetDefault("crank.enabled", false)
	v.SetDefault("crank.schedule", "1 * * * * *")
	v.SetDefault("crank.payer", "")

	v.SetDefault("log.debug", false)
}

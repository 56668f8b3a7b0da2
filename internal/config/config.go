// Package config defines process configuration and per-system parameter
// files.
//
// Conventions:
// - Provide New(...) initializers that build configs with defaults.
// - External errors must be wrapped via this package's sentinel kinds.
// - System TOML files are fully validated at load time; the calculators
//   receive already-validated parameter structs.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DBDriver selects the database backend: sqlite or postgres.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the driver-specific connection string.
	DBDSN string `koanf:"db_dsn"`

	// BatchSize bounds one bulk event insert.
	BatchSize int `koanf:"batch_size"`

	// ConfigRoot is the directory holding per-algorithm system config
	// subdirectories (elo/, glicko2/, openskill/, ...).
	ConfigRoot string `koanf:"config_root"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:   "info",
		DBDriver:   "sqlite",
		DBDSN:      "rerate.db",
		BatchSize:  1000,
		ConfigRoot: "configs",
	}
}

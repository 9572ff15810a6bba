package config

import (
	"github.com/caarlos0/env/v11"

	"soulboard/internal/config/configs"
)

// Config aggregates all configuration sections for the application. Fields
// are populated from environment variables using the caarlos0/env library.
// Nested structs are tagged with envPrefix so their fields are parsed with
// the given prefix. See the individual types in the configs package for
// default values. Use Load to construct a Config.
type Config struct {
	// Env names the deployment environment (e.g. prod, dev). It is attached
	// to every log record.
	Env string `env:"ENV" envDefault:"prod"`

	HTTP    configs.HTTP    `envPrefix:"HTTP_"`
	Log     configs.Logger  `envPrefix:"LOG_"`
	Storage configs.Storage `envPrefix:"STORAGE_"`

	// Psql is only used by the postgres storage driver.
	Psql configs.Postgres `envPrefix:"PSQL_"`

	NATS       configs.NATS       `envPrefix:"NATS_"`
	Settlement configs.Settlement `envPrefix:"SETTLEMENT_"`
}

// Load reads configuration from environment variables into a Config. All
// fields fall back to their defaults when no variable is set.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	if _, err := cfg.Storage.Normalized(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds defaults read from the environment.
type Config struct {
	Format  string `env:"LTI_FORMAT" envDefault:"text"`
	DB      string `env:"LTI_DB"`
	Verbose bool   `env:"LTI_VERBOSE" envDefault:"false"`
}

// LoadConfig reads Config from the process environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// configFrom reads Config from the given variables instead of the process
// environment.
func configFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}
	return cfg, nil
}

// DefaultConfig is the configuration of an empty environment.
func DefaultConfig() Config {
	return Config{Format: "text"}
}

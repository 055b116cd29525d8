// Package config loads the two knobs §6 forwards to the core
// (TypeCheckingStrictness, Unroll) plus the initial global seed, from a
// YAML file overlaid with environment variables.
package config

import (
	"os"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Config is the driver-level configuration (§6).
type Config struct {
	// TypeCheckingStrictness is forwarded to the (external) type checker
	// verbatim; the core never interprets it.
	TypeCheckingStrictness string `yaml:"type_checking_strictness" env:"ASL_STRICTNESS" envDefault:"warn"`
	// Unroll bounds how many times an undetermined loop's body runs
	// before the evaluator warns and exits (§4.5.1, §8).
	Unroll int `yaml:"unroll" env:"ASL_UNROLL" envDefault:"10"`
	// Seed pairs are installed into the global environment by build_genv
	// before any global declaration is resolved, as an initial
	// (identifier, value) seed (§6). Value
	// strings here are handed to the backend's FromLiteral-adjacent
	// string-literal parsing by the driver; their shape is not
	// interpreted here.
	Seed map[string]string `yaml:"seed"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{TypeCheckingStrictness: "warn", Unroll: 10}
}

// Load reads path (if non-empty) as YAML, then overlays any ASL_*
// environment variables set, the way mna-nenuphar's CLI config layer
// overlays env vars onto a file-sourced struct.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.Unroll <= 0 {
		cfg.Unroll = 1
	}

	return cfg, nil
}

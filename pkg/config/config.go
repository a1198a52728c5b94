package config

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/castclean/pkg/filter"
)

// Load reads and validates a configuration file.
// Environment overrides are applied after the file is parsed.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	if p := cfg.RebasePrecision(); p < 0 || p > MaxPrecision {
		return fmt.Errorf("precision: must be between 0 and %d, got %d", MaxPrecision, p)
	}

	for i, s := range cfg.TrimTrailing {
		if s == "" {
			return fmt.Errorf("trim_trailing[%d]: empty string is not allowed", i)
		}
	}

	return nil
}

// FilterOptions converts the configuration into filter options.
func (c *Config) FilterOptions() []filter.Option {
	return []filter.Option{
		filter.WithUnwanted(c.ExtraFilters),
		filter.WithTrailing(c.TrimTrailing),
		filter.WithRebase(!c.DisableRebase),
		filter.WithPrecision(c.RebasePrecision()),
	}
}

// Resolve loads the config at path, or returns defaults with environment
// overrides applied when path is empty.
func Resolve(ctx context.Context, path string) (*Config, error) {
	if path == "" {
		return FromEnvironment(), nil
	}
	return Load(ctx, path)
}

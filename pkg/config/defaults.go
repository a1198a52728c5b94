package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/ccollicutt/castclean/pkg/filter"
)

// Default values for configuration.
const (
	DefaultPrecision = filter.DefaultPrecision
	MaxPrecision     = 9
)

// Environment variable names.
const (
	EnvExtraFilter   = "EXTRA_FILTER"
	EnvDisableRebase = "CASTCLEAN_DISABLE_REBASE"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ExtraFilters: []string{},
	}
}

// FromEnvironment returns the default configuration with environment overrides applied.
func FromEnvironment() *Config {
	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	return cfg
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	c.ExtraFilters = append(c.ExtraFilters, SplitFilterList(os.Getenv(EnvExtraFilter))...)

	if v := os.Getenv(EnvDisableRebase); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.DisableRebase = b
		}
	}
}

// SplitFilterList splits a comma-separated list, dropping empty entries.
// Entries are not trimmed: whitespace is part of the match.
func SplitFilterList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
